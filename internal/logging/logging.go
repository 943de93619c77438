package logging

import "go.uber.org/zap"

// New builds the process logger. Production gets JSON output and sampling,
// everything else gets the development console encoder.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
