package update_location

import (
	"context"

	usecase "github.com/m04kA/SMC-DispatchService/internal/usecase/update_location"
)

type UpdateLocationUseCase interface {
	Execute(ctx context.Context, req *usecase.Request) (*usecase.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
