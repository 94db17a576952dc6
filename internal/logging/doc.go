// Package logging provides structured logging for dpx.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Output to stderr so command output on stdout stays clean
//   - Automatic context field injection (group, project, command)
//   - Secret redaction for platform credentials
//
// # Usage
//
//	cfg, err := logging.FromAppConfig(appCfg.Logging)
//	if err != nil {
//	    return err
//	}
//	logger, err := logging.NewLogger(cfg)
//	if err != nil {
//	    return err
//	}
//	defer logger.Sync()
//
//	ctx = logging.WithProject(ctx, "main", "acme-sales")
//	logger.Info(ctx, "project locked")
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	tl.Warn(ctx, "temporary project")
//	tl.AssertLogged(t, zapcore.WarnLevel, "temporary project")
package logging
