package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
)

// serverGroup - HTTP servers started and stopped together. A server failing outside of shutdown is fatal.
type serverGroup struct {
	servers  []*http.Server
	stopping atomic.Bool
}

func newServerGroup(servers ...*http.Server) *serverGroup {
	return &serverGroup{servers: servers}
}

func (g *serverGroup) start() {
	for _, server := range g.servers {
		go func() {
			log.Println("Listening on", server.Addr)
			err := server.ListenAndServe()
			if err != nil && !g.stopping.Load() && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err)
			}
		}()
	}
}

// stop - gracefully shuts down every server in parallel, waiting at most until ctx is done.
func (g *serverGroup) stop(ctx context.Context) {
	g.stopping.Store(true)

	var wg sync.WaitGroup
	for _, server := range g.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.Shutdown(ctx); err != nil {
				log.Printf("Failed to stop server on %s: %v", server.Addr, err)
			}
		}()
	}
	wg.Wait()
}
