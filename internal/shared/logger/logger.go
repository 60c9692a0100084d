package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New cria um logger estruturado com os campos padrão de serviço e ambiente
// Campos extras podem ser anexados pelo chamador (ex: versão, instância)
func New(serviceName string, env string, extra ...zap.Field) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	fields := append([]zap.Field{
		zap.String("service", serviceName),
		zap.String("env", env),
	}, extra...)

	l, err := cfg.Build(zap.Fields(fields...))
	if err != nil {
		return nil, err
	}
	return l, nil
}
