package feed

import "github.com/rs/zerolog/log"

// LogAlerter reports alerts through the global logger.
type LogAlerter struct{}

func (LogAlerter) Success(msg string) {
	log.Info().Msg(msg)
}

func (LogAlerter) Failure(msg string) {
	log.Error().Msg(msg)
}
