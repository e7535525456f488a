package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/common/errors"
	"github.com/benchly/dispatch/common/log/hooks"
	"github.com/benchly/dispatch/scheduler/client/cli"
)

// Dispatcher binary: runs the dispatcher and manages its contacts and jobs.
//	Supported commands: (see "-h" for all options)
//		serve
//		contact add [endpoint]
//		contact list
//		job create --workflow [file]
//		job cancel [job id]
//		job messages [job id]
//		admin messages
//	Global flags:
//		--config [preset name or config file]
//		--log_level [<error|info|debug> level and above should be logged]

func main() {
	log.AddHook(hooks.NewContextHook())

	cl, err := cli.NewSimpleCLIClient()
	if err != nil {
		log.Fatal("Failed to create dispatcher CLI client: ", err)
	}

	if err := cl.Exec(); err != nil {
		log.Error("Error running dispatcher: ", err)
		os.Exit(int(errors.ExitCodeOf(err)))
	}
}
