// Package actions contains the operations behind the loan-api-tests commands
// and interactive menu.
package actions

import (
	"fmt"
	"io"

	"github.com/jason-fintech/loan-api-tests/internal/config"
)

// ShowConfig displays the current configuration
func ShowConfig(w io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Fprintln(w, cfg.String())
	return nil
}
