//spellchecker:words main
package main

//spellchecker:words http pprof time github bindjoin internal stats gorilla
import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/FAU-CDI/bindjoin/internal/stats"
	"github.com/gorilla/mux"
)

// listenDebug serves profiling endpoints on debugServer.
// Progress of the current stage is served at /debug/progress.
func listenDebug(st *stats.Stats) {
	router := mux.NewRouter()
	router.Handle("/debug/pprof/", http.HandlerFunc(pprof.Index))
	router.Handle("/debug/pprof/cmdline", http.HandlerFunc(pprof.Cmdline))
	router.Handle("/debug/pprof/profile", http.HandlerFunc(pprof.Profile))
	router.Handle("/debug/pprof/symbol", http.HandlerFunc(pprof.Symbol))
	router.Handle("/debug/pprof/trace", http.HandlerFunc(pprof.Trace))
	router.Handle("/debug/pprof/{cmd}", http.HandlerFunc(pprof.Index)) // special handling for Gorilla mux
	router.HandleFunc("/debug/progress", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		current, ok := st.Current()
		if !ok {
			_, _ = fmt.Fprintf(w, "idle stages=%d\n", len(st.Stages()))
			return
		}
		_, _ = fmt.Fprintf(w, "stage=%q count=%d total=%d joins=%d\n", current.Stage, current.Count, current.Total, len(current.Joins))
	}).Methods(http.MethodGet)

	st.Log("debug server listening", "addr", debugServer)

	server := http.Server{
		Addr:              debugServer,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	err := server.ListenAndServe()

	st.LogFatal("pprof server listen", err)
}
