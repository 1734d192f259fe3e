package di

import (
	bookingSweeper "rhx/internal/domains/booking/sweeper"
	"rhx/transport/http"
)

// App bundles the HTTP server with the background expiry sweeper so both
// share one dependency graph.
type App struct {
	HTTP    *http.HTTP
	Sweeper bookingSweeper.Sweeper
}
