package main

import (
	"flag"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/endpoints"
	"github.com/benchly/dispatch/common/log/hooks"
	"github.com/benchly/dispatch/workerapi/server"
)

// Simulated contact for local setups. Accepted jobs run for --job_time and then succeed.
var httpPort = flag.Int("http_port", 9095, "port to serve the contact protocol on")
var adminPort = flag.Int("admin_port", 9096, "port to serve health and metrics on")
var name = flag.String("name", "contactsim", "name reported in status")
var memory = flag.Int64("memory", 8*1000*1000*1000, "long term usable memory to advertise, in bytes")
var jobTime = flag.Duration("job_time", 30*time.Second, "how long accepted jobs run")
var logLevel = flag.String("log_level", "info", "Log everything at this level and above (error|info|debug)")

func main() {
	log.AddHook(hooks.NewContextHook())
	flag.Parse()
	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	log.SetLevel(level)

	stat := endpoints.MakeStatsReceiver("contactsim")
	admin := endpoints.NewTwitterServer(endpoints.Addr(fmt.Sprintf("localhost:%d", *adminPort)), stat)
	go func() {
		if err := admin.Serve(); err != nil {
			log.Fatal("Error serving admin endpoint: ", err)
		}
	}()

	contact := server.NewContact(*name, *memory, stat)
	go finishJobs(contact, *jobTime)

	addr := fmt.Sprintf("localhost:%d", *httpPort)
	log.Infof("Serving contact %s on %s", *name, addr)
	if err := http.ListenAndServe(addr, contact); err != nil {
		log.Fatal("Error serving contact: ", err)
	}
}

// finishJobs succeeds every job once it has run for jobTime.
func finishJobs(contact *server.Contact, jobTime time.Duration) {
	for range time.Tick(time.Second) {
		now := time.Now()
		for _, job := range contact.Jobs() {
			if job.EndedAt != nil || job.StartedAt == nil {
				continue
			}
			if now.Sub(time.Unix(*job.StartedAt, 0)) >= jobTime {
				if err := contact.Finish(job.ID, false, now.Unix()); err != nil {
					log.Errorf("Finishing job %d: %v", job.ID, err)
				}
			}
		}
	}
}
