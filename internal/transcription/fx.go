package transcription

import (
	"github.com/katapod/transcribe/internal/transcription/openai"
	"github.com/katapod/transcribe/internal/transcription/repository"
	"github.com/katapod/transcribe/internal/transcription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("transcription",
	fx.Provide(openai.New),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
