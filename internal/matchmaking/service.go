package matchmaking

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/padel-connect/internal/auth"
	"github.com/mauv0809/padel-connect/internal/metrics"
	"github.com/mauv0809/padel-connect/internal/outcome"
	"github.com/mauv0809/padel-connect/internal/pubsub"
)

// DefaultRequestTTL is how long a request stays pending before it expires.
const DefaultRequestTTL = 30 * time.Minute

// Service implements the match request lifecycle.
type Service struct {
	store     MatchStore
	profiles  Profiles
	notifier  Notifier
	publisher pubsub.Publisher
	metrics   metrics.Metrics
	ttl       time.Duration
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides DefaultRequestTTL.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the lifecycle service. notifier and publisher may be nil.
func NewService(store MatchStore, profiles Profiles, notifier Notifier, publisher pubsub.Publisher, metrics metrics.Metrics, opts ...Option) *Service {
	s := &Service{
		store:     store,
		profiles:  profiles,
		notifier:  notifier,
		publisher: publisher,
		metrics:   metrics,
		ttl:       DefaultRequestTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clock returns the current time at the store's resolution.
func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

// SendMatchRequest creates a pending request from the caller to receiverID.
func (s *Service) SendMatchRequest(ctx context.Context, caller auth.Identity, receiverID string) (req *MatchRequest, err error) {
	defer s.track("send", time.Now(), &err)
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	senderID := caller.UserID
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	// Best-effort: a failed sweep must not block sending.
	if _, err := s.ExpireStaleRequests(ctx); err != nil {
		log.Warn("Sweep before send failed", "error", err)
	}

	profiles, err := s.profiles.GetByUserIDs(ctx, []string{senderID, receiverID})
	if err != nil {
		return nil, err
	}
	sender, ok := profiles[senderID]
	if !ok {
		return nil, ErrSenderProfileMissing
	}
	if !sender.IsOnline {
		return nil, ErrSenderOffline
	}
	receiver, ok := profiles[receiverID]
	if !ok {
		return nil, ErrReceiverNotFound
	}
	if !receiver.IsOnline {
		return nil, ErrReceiverOffline
	}

	now := s.clock()
	outgoing, err := s.store.PendingFromSender(ctx, senderID)
	if err != nil {
		return nil, err
	}
	for _, r := range outgoing {
		if r.Active(now) {
			return nil, ErrActiveOutgoingRequest
		}
	}

	between, err := s.store.PendingBetween(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	for _, r := range between {
		if !r.Active(now) {
			continue
		}
		// Unreachable while a sender holds at most one pending request.
		if r.SenderID == senderID {
			return nil, ErrPendingToReceiver
		}
		return nil, ErrReciprocalRequest
	}

	req = &MatchRequest{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     StatusPending,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
		UpdatedAt:  now,
	}
	// The pending indexes catch a concurrent send that passed the checks above.
	if err := s.store.InsertRequest(ctx, req); err != nil {
		return nil, err
	}

	log.Info("Sent match request", "request_id", req.ID, "sender", senderID, "receiver", receiverID)
	s.metrics.IncRequestsSent()
	s.publishRequest(ctx, pubsub.EventInsert, req)
	return req, nil
}

// AcceptMatchRequest turns a pending request into a match. Cancelling the
// other pending requests of both players, creating the match and linking it to
// the request happen in one transaction.
func (s *Service) AcceptMatchRequest(ctx context.Context, caller auth.Identity, requestID string) (result *Acceptance, err error) {
	defer s.track("accept", time.Now(), &err)
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}

	req, err := s.pendingRequest(ctx, requestID, caller.UserID, ErrNotReceiver, func(r *MatchRequest) string { return r.ReceiverID })
	if err != nil {
		return nil, err
	}

	now := s.clock()
	if req.ExpiredAt(now) {
		expired, err := s.store.TransitionRequest(ctx, req.ID, StatusExpired, now)
		if err != nil {
			return nil, err
		}
		if expired {
			req.Status = StatusExpired
			req.UpdatedAt = now
			s.metrics.IncRequestTransition(string(StatusExpired))
			s.publishRequest(ctx, pubsub.EventUpdate, req)
		}
		return nil, ErrRequestExpired
	}

	result = &Acceptance{}
	err = s.store.WithTx(ctx, func(tx MatchStore) error {
		current, err := tx.GetRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		if current.Status != StatusPending {
			return ErrRequestNotActive
		}

		online, err := tx.OnlineStatus(ctx, current.ReceiverID, current.SenderID)
		if err != nil {
			return err
		}
		if !online[current.ReceiverID] {
			return ErrReceiverGone
		}
		if !online[current.SenderID] {
			return ErrSenderGone
		}

		cancelled, err := tx.CancelPendingInvolving(ctx, []string{current.SenderID, current.ReceiverID}, current.ID, now)
		if err != nil {
			return err
		}

		match := &Match{
			ID:        uuid.NewString(),
			Player1ID: current.SenderID,
			Player2ID: current.ReceiverID,
			Status:    MatchWaiting,
			StartedAt: now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.InsertMatch(ctx, match); err != nil {
			return err
		}

		accepted, err := tx.MarkAccepted(ctx, current.ID, match.ID, now)
		if err != nil {
			return err
		}
		if !accepted {
			return ErrRequestNotActive
		}

		current.Status = StatusAccepted
		current.MatchID = &match.ID
		current.UpdatedAt = now
		result.Request = current
		result.Match = match
		result.Cancelled = cancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Accepted match request", "request_id", requestID, "match_id", result.Match.ID, "cancelled", len(result.Cancelled))
	s.metrics.IncRequestTransition(string(StatusAccepted))
	s.metrics.IncMatchesCreated()
	for i := range result.Cancelled {
		s.metrics.IncRequestTransition(string(StatusCancelled))
		s.publishRequest(ctx, pubsub.EventUpdate, &result.Cancelled[i])
	}
	s.publishRequest(ctx, pubsub.EventUpdate, result.Request)
	s.publish(ctx, pubsub.Event{
		Type:       pubsub.EventInsert,
		Table:      pubsub.TableMatches,
		RecordID:   result.Match.ID,
		UserIDs:    []string{result.Match.Player1ID, result.Match.Player2ID},
		Status:     string(result.Match.Status),
		OccurredAt: now,
	})
	s.announce(ctx, result.Match)
	return result, nil
}

// DeclineMatchRequest rejects a pending request addressed to the caller.
func (s *Service) DeclineMatchRequest(ctx context.Context, caller auth.Identity, requestID string) (req *MatchRequest, err error) {
	defer s.track("decline", time.Now(), &err)
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	req, err = s.pendingRequest(ctx, requestID, caller.UserID, ErrNotReceiver, func(r *MatchRequest) string { return r.ReceiverID })
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, req, StatusRejected)
}

// CancelMatchRequest withdraws a pending request sent by the caller.
func (s *Service) CancelMatchRequest(ctx context.Context, caller auth.Identity, requestID string) (req *MatchRequest, err error) {
	defer s.track("cancel", time.Now(), &err)
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	req, err = s.pendingRequest(ctx, requestID, caller.UserID, ErrNotSender, func(r *MatchRequest) string { return r.SenderID })
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, req, StatusCancelled)
}

// pendingRequest loads a request and checks that the caller is the party
// returned by party and that it is still pending.
func (s *Service) pendingRequest(ctx context.Context, id, callerID string, wrongParty error, party func(*MatchRequest) string) (*MatchRequest, error) {
	req, err := s.store.GetRequest(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if party(req) != callerID {
		return nil, wrongParty
	}
	switch req.Status {
	case StatusPending:
	case StatusExpired:
		return nil, ErrRequestExpired
	default:
		return nil, ErrRequestNotActive
	}
	return req, nil
}

func (s *Service) finish(ctx context.Context, req *MatchRequest, to RequestStatus) (*MatchRequest, error) {
	now := s.clock()
	ok, err := s.store.TransitionRequest(ctx, req.ID, to, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRequestNotActive
	}
	req.Status = to
	req.UpdatedAt = now

	log.Info("Match request closed", "request_id", req.ID, "status", to)
	s.metrics.IncRequestTransition(string(to))
	s.publishRequest(ctx, pubsub.EventUpdate, req)
	return req, nil
}

// ExpireStaleRequests moves every pending request past its expiry to expired
// and returns how many changed. Running it again is a no-op.
func (s *Service) ExpireStaleRequests(ctx context.Context) (int, error) {
	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	now := s.clock()
	stale := StaleRequests(now, pending)
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]string, len(stale))
	for i, r := range stale {
		ids[i] = r.ID
	}
	n, err := s.store.MarkExpired(ctx, ids, now)
	if err != nil {
		return 0, err
	}

	log.Info("Expired stale match requests", "count", n)
	s.metrics.AddRequestsExpired(n)
	for i := range stale {
		stale[i].Status = StatusExpired
		stale[i].UpdatedAt = now
		s.publishRequest(ctx, pubsub.EventUpdate, &stale[i])
	}
	return n, nil
}

// IncomingRequests lists pending requests addressed to the caller, newest
// first, with the sender's profile.
func (s *Service) IncomingRequests(ctx context.Context, caller auth.Identity) ([]RequestView, error) {
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	s.sweepBeforeRead(ctx)
	reqs, err := s.store.ListIncoming(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs, func(r MatchRequest) string { return r.SenderID })
}

// OutgoingRequests lists the caller's pending, accepted and rejected requests,
// newest first, with the receiver's profile.
func (s *Service) OutgoingRequests(ctx context.Context, caller auth.Identity) ([]RequestView, error) {
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	s.sweepBeforeRead(ctx)
	reqs, err := s.store.ListOutgoing(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, reqs, func(r MatchRequest) string { return r.ReceiverID })
}

func (s *Service) sweepBeforeRead(ctx context.Context) {
	if _, err := s.ExpireStaleRequests(ctx); err != nil {
		log.Warn("Sweep before read failed", "error", err)
	}
}

func (s *Service) views(ctx context.Context, reqs []MatchRequest, counterpart func(MatchRequest) string) ([]RequestView, error) {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, counterpart(r))
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]RequestView, len(reqs))
	for i, r := range reqs {
		views[i] = RequestView{MatchRequest: r, Counterpart: profiles[counterpart(r)]}
	}
	return views, nil
}

// GetMatch returns a match and both profiles. Only its players may see it.
func (s *Service) GetMatch(ctx context.Context, caller auth.Identity, matchID string) (*MatchView, error) {
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	m, err := s.participantMatch(ctx, caller.UserID, matchID)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, []string{m.Player1ID, m.Player2ID})
	if err != nil {
		return nil, err
	}
	return &MatchView{Match: *m, Player1: profiles[m.Player1ID], Player2: profiles[m.Player2ID]}, nil
}

// UpdateMatchStatus moves a match forward. Either player may do so.
func (s *Service) UpdateMatchStatus(ctx context.Context, caller auth.Identity, matchID string, to MatchStatus) (m *Match, err error) {
	defer s.track("match_status", time.Now(), &err)
	if caller.IsZero() {
		return nil, outcome.ErrNotAuthenticated
	}
	if !to.Valid() {
		return nil, ErrInvalidMatchStatus
	}
	m, err = s.participantMatch(ctx, caller.UserID, matchID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(m.Status, to) {
		return nil, ErrIllegalTransition
	}

	now := s.clock()
	ok, err := s.store.TransitionMatch(ctx, m.ID, m.Status, to, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrIllegalTransition
	}
	m.Status = to
	m.UpdatedAt = now

	log.Info("Match status changed", "match_id", m.ID, "status", to)
	s.publish(ctx, pubsub.Event{
		Type:       pubsub.EventUpdate,
		Table:      pubsub.TableMatches,
		RecordID:   m.ID,
		UserIDs:    []string{m.Player1ID, m.Player2ID},
		Status:     string(to),
		OccurredAt: now,
	})
	return m, nil
}

func (s *Service) participantMatch(ctx context.Context, callerID, matchID string) (*Match, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, err
	}
	if !m.HasPlayer(callerID) {
		return nil, ErrNotParticipant
	}
	return m, nil
}

// CountMatchesSince counts matches created at or after since.
func (s *Service) CountMatchesSince(ctx context.Context, since time.Time) (int, error) {
	return s.store.CountMatchesSince(ctx, since)
}

// RemoveOrphanMatches deletes matches older than grace that no accepted request
// points at. Such rows are only left behind if an accept was interrupted
// outside a transaction, e.g. against a remote store without one.
func (s *Service) RemoveOrphanMatches(ctx context.Context, grace time.Duration) (int, error) {
	orphans, err := s.store.OrphanMatches(ctx, s.clock().Add(-grace))
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, m := range orphans {
		if err := s.store.DeleteMatch(ctx, m.ID); err != nil {
			log.Error("Failed to delete orphan match", "match_id", m.ID, "error", err)
			continue
		}
		removed++
		s.publish(ctx, pubsub.Event{
			Type:       pubsub.EventDelete,
			Table:      pubsub.TableMatches,
			RecordID:   m.ID,
			UserIDs:    []string{m.Player1ID, m.Player2ID},
			Status:     string(m.Status),
			OccurredAt: s.clock(),
		})
	}
	if removed > 0 {
		log.Warn("Removed orphan matches", "count", removed)
		s.metrics.AddOrphanMatchesRepaired(removed)
	}
	return removed, nil
}

func (s *Service) announce(ctx context.Context, m *Match) {
	if s.notifier == nil {
		return
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, []string{m.Player1ID, m.Player2ID})
	if err != nil {
		log.Warn("Failed to load players for match announcement", "match_id", m.ID, "error", err)
		return
	}
	if err := s.notifier.NotifyMatchCreated(m, profiles[m.Player1ID], profiles[m.Player2ID], IsDryRun(ctx)); err != nil {
		log.Warn("Failed to announce match", "match_id", m.ID, "error", err)
	}
}

func (s *Service) publishRequest(ctx context.Context, typ pubsub.EventType, r *MatchRequest) {
	s.publish(ctx, pubsub.Event{
		Type:       typ,
		Table:      pubsub.TableMatchRequests,
		RecordID:   r.ID,
		UserIDs:    []string{r.SenderID, r.ReceiverID},
		Status:     string(r.Status),
		OccurredAt: r.UpdatedAt,
	})
}

func (s *Service) publish(ctx context.Context, event pubsub.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.IncEventsFailed()
		log.Warn("Failed to publish change event", "table", event.Table, "record_id", event.RecordID, "error", err)
		return
	}
	s.metrics.IncEventsPublished()
}

// track records the duration of an operation and counts rejections by kind.
func (s *Service) track(op string, start time.Time, err *error) {
	s.metrics.ObserveOperationDuration(op, time.Since(start).Seconds())
	if *err == nil {
		return
	}
	if r, ok := outcome.AsRejection(*err); ok {
		s.metrics.IncRequestsRejected(string(r.Kind))
		log.Warn("Operation rejected", "operation", op, "kind", r.Kind, "reason", r.Message)
		return
	}
	log.Error("Operation failed", "operation", op, "error", *err)
}

type dryRunKey struct{}

// WithDryRun marks ctx so that notifications are logged instead of sent.
func WithDryRun(ctx context.Context, dryRun bool) context.Context {
	return context.WithValue(ctx, dryRunKey{}, dryRun)
}

// IsDryRun reports whether ctx was marked by WithDryRun.
func IsDryRun(ctx context.Context) bool {
	dryRun, ok := ctx.Value(dryRunKey{}).(bool)
	return ok && dryRun
}
