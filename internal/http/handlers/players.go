package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/player"
)

// photoFormOverhead leaves room for multipart headers around the file part.
const photoFormOverhead = 1 << 20

func StartSessionHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := players.StartSession(r.Context(), auth.FromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, p)
	}
}

func EndSessionHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := players.EndSession(r.Context(), auth.FromContext(r.Context())); err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, nil)
	}
}

func GetProfileHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := players.EnsurePlayer(r.Context(), auth.FromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, p)
	}
}

func UpdateProfileHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var update player.ProfileUpdate
		if !decodeJSON(w, r, &update) {
			return
		}
		p, err := players.UpdateProfile(r.Context(), auth.FromContext(r.Context()), update)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, p)
	}
}

func PresenceHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Online bool `json:"online"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		p, err := players.TogglePresence(r.Context(), auth.FromContext(r.Context()), body.Online)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, p)
	}
}

func UploadPhotoHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, player.MaxPhotoSize+photoFormOverhead)
		photo := player.Photo{}
		file, header, err := r.FormFile("file")
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			respondError(w, player.ErrFileTooLarge)
			return
		case err == nil:
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				respondError(w, player.ErrFileTooLarge)
				return
			}
			photo = player.Photo{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			}
		}

		url, err := players.UploadPhoto(r.Context(), auth.FromContext(r.Context()), photo)
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusCreated, map[string]string{"photo_url": url})
	}
}

func OnlinePlayersHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := players.OnlinePlayers(r.Context(), auth.FromContext(r.Context()))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, nonNil(list))
	}
}

func CompatiblePlayersHandler(players *player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		list, err := players.CompatiblePlayers(r.Context(), auth.FromContext(r.Context()),
			player.SkillLevel(q.Get("skill")), q.Get("city"))
		if err != nil {
			respondError(w, err)
			return
		}
		respondOK(w, http.StatusOK, nonNil(list))
	}
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
