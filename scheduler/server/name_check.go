package server

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/benchly/dispatch/workerapi"
)

// checkName asks the server at endpoint for the name it asserts.
func (d *deps) checkName(ctx context.Context, endpoint string) (string, error) {
	report, err := d.client.FetchStatus(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if report.Name == "" {
		return "", workerapi.NewServerAccessError(0, "Server at %s did not report a name", endpoint)
	}
	log.WithFields(log.Fields{
		"endpoint": endpoint,
		"contact":  report.Name,
	}).Info("Server name checked")
	return report.Name, nil
}
