package strategy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	cerrors "github.com/logandonley/courier/pkg/errors"
	"github.com/logandonley/courier/pkg/file"
	"github.com/logandonley/courier/pkg/logging"
	"github.com/logandonley/courier/pkg/metrics"
	"github.com/logandonley/courier/pkg/response"
	"github.com/logandonley/courier/pkg/settings"
)

// Phase is the lifecycle state of a single call
type Phase int

const (
	Idle Phase = iota
	PreChecking
	Operating
	CleaningUp
	Done
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case PreChecking:
		return "pre-checking"
	case Operating:
		return "operating"
	case CleaningUp:
		return "cleaning-up"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Executor runs strategies through the fixed lifecycle:
// BeforeExecute, the operation, local cleanup, AfterExecute.
// A zero Executor logs to the global logger.
type Executor struct {
	Logger *zap.Logger
}

// Upload runs an upload with the default executor
func Upload(ctx context.Context, s Strategy, set *settings.Settings, src *file.Source) response.Response {
	return Executor{}.Upload(ctx, s, set, src)
}

// Delete runs a delete with the default executor
func Delete(ctx context.Context, s Strategy, target file.Target) response.Response {
	return Executor{}.Delete(ctx, s, target)
}

// Upload uploads src and returns Success with the resource URL, or Error.
// The local file is removed after a successful upload unless
// canDeleteAfterUpload is false.
func (e Executor) Upload(ctx context.Context, s Strategy, set *settings.Settings, src *file.Source) response.Response {
	if set == nil {
		set = &settings.Settings{}
	}
	start := time.Now()

	url, err := e.execute(ctx, s, "upload",
		func(ctx context.Context) (string, error) {
			return s.DoUpload(ctx, src)
		},
		func(log *zap.Logger) {
			if src == nil || !set.Bool(settings.CanDeleteAfterUpload, true) {
				return
			}
			if err := os.Remove(src.LocalPath()); err != nil {
				metrics.RecordLocalCleanupFailure()
				log.Debug("failed to remove local file", zap.String("path", src.LocalPath()), zap.Error(err))
			}
		},
	)

	var resp response.Response
	if err != nil {
		resp = response.Error(cerrors.CodeOf(err), err.Error())
	} else {
		resp = response.Success(http.StatusOK, url)
	}
	metrics.RecordOperation(backendLabel(s), "upload", resp.OK(), resp.Code(), time.Since(start))
	return resp
}

// Delete removes target and returns DeleteSuccess, or Error
func (e Executor) Delete(ctx context.Context, s Strategy, target file.Target) response.Response {
	start := time.Now()

	msg, err := e.execute(ctx, s, "delete",
		func(ctx context.Context) (string, error) {
			return s.DoDelete(ctx, target)
		},
		nil,
	)

	var resp response.Response
	if err != nil {
		resp = response.Error(cerrors.CodeOf(err), err.Error())
	} else {
		resp = response.DeleteSuccess(http.StatusOK, msg)
	}
	metrics.RecordOperation(backendLabel(s), "delete", resp.OK(), resp.Code(), time.Since(start))
	return resp
}

func (e Executor) logger() *zap.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return logging.L()
}

// execute runs one call through the lifecycle. AfterExecute is deferred on
// a context that ignores cancellation, and panics come back as errors.
func (e Executor) execute(
	ctx context.Context,
	s Strategy,
	op string,
	operate func(context.Context) (string, error),
	onSuccess func(*zap.Logger),
) (result string, err error) {
	if s == nil {
		return "", cerrors.Connectivity("no strategy configured", nil)
	}

	log := e.logger().With(
		zap.String("backend", string(s.Type())),
		zap.String("strategy", s.Name()),
		zap.String("op", op),
		zap.String("op_id", uuid.NewString()),
	)

	phase := Idle
	enter := func(p Phase) {
		phase = p
		log.Debug("lifecycle phase", zap.Stringer("phase", p))
	}

	// failedAt is the phase that was active when cleanup started
	failedAt := Idle

	defer func() {
		if r := recover(); r != nil {
			log.Error("strategy panicked", zap.Stringer("phase", failedAt), zap.Any("panic", r))
			result = ""
			err = cerrors.Internal(fmt.Sprintf("%s failed while %s", op, failedAt), fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			log.Warn(op+" failed", zap.Int("code", cerrors.CodeOf(err)), zap.Error(err))
		} else {
			log.Info(op + " succeeded")
		}
	}()

	defer func() {
		failedAt = phase
		enter(CleaningUp)
		if aerr := afterExecute(context.WithoutCancel(ctx), s); aerr != nil {
			log.Warn("cleanup failed", zap.Stringer("after", failedAt), zap.Error(aerr))
		}
		enter(Done)
	}()

	enter(PreChecking)
	if err := s.BeforeExecute(ctx); err != nil {
		return "", classify(ctx, err)
	}
	if err := ctx.Err(); err != nil {
		return "", classify(ctx, err)
	}

	enter(Operating)
	result, err = operate(ctx)
	if err != nil {
		return "", classify(ctx, err)
	}

	if onSuccess != nil {
		onSuccess(log)
	}
	return result, nil
}

// afterExecute keeps a panicking cleanup from replacing the call's outcome
func afterExecute(ctx context.Context, s Strategy) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cleanup panicked: %v", r)
		}
	}()
	return s.AfterExecute(ctx)
}

// classify maps cancellation to a connectivity error. Other errors keep
// their kind, unclassified ones become 500 through CodeOf.
func classify(ctx context.Context, err error) error {
	var ce *cerrors.Error
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return cerrors.Connectivity("operation cancelled", err)
	}
	return cerrors.Internal("operation failed", err)
}

func backendLabel(s Strategy) string {
	if s == nil {
		return "none"
	}
	return string(s.Type())
}
