package daemon

import (
	"context"
	"errors"

	"go.trai.ch/vgren/internal/core/domain"
	"go.trai.ch/zerr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// errorKindKey is the trailer carrying the domain classification of a failed call.
const errorKindKey = "vgren-error-kind"

var errorKinds = []struct {
	kind     string
	code     codes.Code
	sentinel error
}{
	{"no-main", codes.FailedPrecondition, domain.ErrNoMain},
	{"compile-failed", codes.Aborted, domain.ErrCompileFailed},
	{"compiler-not-found", codes.Unavailable, domain.ErrCompilerNotFound},
	{"compiler-not-executable", codes.Unavailable, domain.ErrCompilerNotExecutable},
	{"compiler-launch-failed", codes.Unavailable, domain.ErrCompilerLaunchFailed},
	{"lock-timeout", codes.DeadlineExceeded, domain.ErrLockTimeout},
	{"compile-timeout", codes.DeadlineExceeded, domain.ErrCompileTimeout},
	{"discovery-failed", codes.NotFound, domain.ErrDiscoveryFailed},
	{"accompany-unresolved", codes.NotFound, domain.ErrAccompanyUnresolved},
	{"transform-failed", codes.Internal, domain.ErrTransformFailed},
}

// toStatus converts a backend error into a gRPC status error and records its
// classification in the response trailer.
func toStatus(ctx context.Context, err error) error {
	for _, k := range errorKinds {
		if errors.Is(err, k.sentinel) {
			_ = grpc.SetTrailer(ctx, metadata.Pairs(errorKindKey, k.kind))
			return status.Error(k.code, err.Error())
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

// fromStatus restores the domain classification of a failed call.
func fromStatus(err error, trailer metadata.MD) error {
	st, ok := status.FromError(err)
	if !ok {
		return zerr.Wrap(err, "daemon request failed")
	}

	if kinds := trailer.Get(errorKindKey); len(kinds) > 0 {
		for _, k := range errorKinds {
			if k.kind == kinds[0] {
				return errors.Join(k.sentinel, zerr.New(st.Message()))
			}
		}
	}

	switch st.Code() {
	case codes.Unavailable:
		return errors.Join(domain.ErrDaemonUnavailable, zerr.Wrap(err, "failed to reach daemon"))
	case codes.Canceled:
		return errors.Join(context.Canceled, zerr.New(st.Message()))
	case codes.DeadlineExceeded:
		return errors.Join(context.DeadlineExceeded, zerr.New(st.Message()))
	default:
		return zerr.Wrap(err, "daemon request failed")
	}
}
