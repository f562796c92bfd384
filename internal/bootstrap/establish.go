package bootstrap

import "context"

// Establish calls connect until it succeeds and returns its result.
// Each failure is logged as a warning and followed by a pause of
// config.ConnectRetry. There is no attempt limit; only a done ctx stops
// the loop early.
func Establish[T any](ctx context.Context, config *Config, deps *Dependencies, connect func(context.Context) (T, error)) (T, error) {
	cfg := applyConfigDefaults(config)
	d := applyDependencyDefaults(deps)

	for {
		conn, err := connect(ctx)
		if err == nil {
			return conn, nil
		}
		d.Logger.Warning("error starting webdriver client: %v. Retrying in %s...", err, cfg.ConnectRetry)
		if err := d.Sleep(ctx, cfg.ConnectRetry); err != nil {
			var zero T
			return zero, err
		}
	}
}
