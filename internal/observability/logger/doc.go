// Package logger expone un logger Zap único con scoping por contexto.
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, ServiceName: "castingagency"})
//	defer logger.Sync()
//
// En handlers y stores, con el logger del request (request_id, method, path):
//
//	logger.From(ctx).Info("movie created", logger.Resource("movies"), logger.EntityID(id))
package logger
