package vfs

import "io"

// silentClose closes closer and logs a failure at debug level instead of
// propagating it. Used on the cleanup path of operations that already have a
// more meaningful error to report (e.g. copy-then-remove degradation).
func silentClose(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		log.Debug().Err(err).Msg("failed to close resource")
	}
}
