package inngest

import "net/http"

// InngestClient serves the registered functions to the Inngest executor.
type InngestClient interface {
	Serve() http.Handler
}
