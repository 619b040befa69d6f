package actions

import (
	"errors"
	"fmt"

	"github.com/jason-fintech/loan-api-tests/internal/config"
	"github.com/sirupsen/logrus"
)

// ErrProductionBlocked is returned when a suite that creates, updates or
// deletes loans targets production without explicit permission.
var ErrProductionBlocked = errors.New("refusing to run write cases against production")

// GuardProduction blocks runs against PROD unless allowProd is set. A base URL
// override bypasses the guard since it no longer points at the production host.
func GuardProduction(log logrus.FieldLogger, env config.Resolved, allowProd bool) error {
	if env.Environment != config.EnvProd || env.BaseURL != config.EnvProd.BaseURL() {
		return nil
	}

	if !allowProd {
		return fmt.Errorf("%w: %s (pass --allow-prod to override)", ErrProductionBlocked, env.BaseURL)
	}

	log.WithField("base_url", env.BaseURL).Warn("Running write cases against production")

	return nil
}
