package app

import "go.uber.org/zap"

// NewLogger returns a production JSON logger, or a development console logger
// when debug is set.
func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	var (
		base *zap.Logger
		err  error
	)
	if debug {
		base, err = zap.NewDevelopment()
	} else {
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return base.Sugar(), nil
}
