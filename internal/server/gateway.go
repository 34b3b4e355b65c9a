package server

import (
	"context"
	"errors"
	"net/http"

	gatewayfile "github.com/black-06/grpc-gateway-file"
	v1 "github.com/emrgen/okr/apis/v1"
	"github.com/emrgen/okr/internal/service"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
)

// NewGatewayMux creates the REST mux and registers the link API on it.
func NewGatewayMux(api *LinkAPI) (*runtime.ServeMux, error) {
	mux := runtime.NewServeMux(
		runtime.WithMarshalerOption(runtime.MIMEWildcard, &runtime.HTTPBodyMarshaler{
			Marshaler: &runtime.JSONPb{
				MarshalOptions: protojson.MarshalOptions{
					EmitUnpopulated: true,
				},
				UnmarshalOptions: protojson.UnmarshalOptions{
					DiscardUnknown: true,
				},
			},
		}),
		gatewayfile.WithHTTPBodyMarshaler(),
		runtime.WithErrorHandler(errorHandler),
	)

	if err := api.Register(mux); err != nil {
		return nil, err
	}

	return mux, nil
}

// errorHandler writes workflow errors with their code and conflicting target, other errors
// keep their gRPC code and internal failures are masked.
func errorHandler(ctx context.Context, mux *runtime.ServeMux, marshaler runtime.Marshaler, w http.ResponseWriter, r *http.Request, err error) {
	st := status.Convert(err)
	body := &v1.Error{Code: st.Code().String(), Message: st.Message()}

	var le *service.LinkError
	switch {
	case errors.As(err, &le):
		body = &v1.Error{
			Code:               string(le.Code),
			Message:            le.Message,
			ConflictTargetType: le.ConflictTargetType,
			ConflictTargetID:   le.ConflictTargetID,
		}
	case st.Code() == codes.Unknown || st.Code() == codes.Internal:
		logrus.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		body = &v1.Error{Code: codes.Internal.String(), Message: "internal error"}
	}

	writeResponse(w, marshaler, runtime.HTTPStatusFromCode(st.Code()), body)
}

func writeResponse(w http.ResponseWriter, marshaler runtime.Marshaler, code int, v interface{}) {
	buf, err := marshaler.Marshal(v)
	if err != nil {
		logrus.Errorf("failed to marshal response: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", marshaler.ContentType(v))
	w.WriteHeader(code)
	if _, err := w.Write(buf); err != nil {
		logrus.Errorf("failed to write response: %v", err)
	}
}

// RegisterHealth exposes the health service at GET /healthz.
func RegisterHealth(mux *runtime.ServeMux, healthServer healthpb.HealthServer) error {
	return mux.HandlePath(http.MethodGet, "/healthz", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		_, outbound := runtime.MarshalerForRequest(mux, r)

		res, err := healthServer.Check(r.Context(), &healthpb.HealthCheckRequest{Service: HealthService})
		if err != nil {
			runtime.HTTPError(r.Context(), mux, outbound, w, r, err)
			return
		}

		code := http.StatusOK
		if res.GetStatus() != healthpb.HealthCheckResponse_SERVING {
			code = http.StatusServiceUnavailable
		}
		writeResponse(w, outbound, code, map[string]string{"status": res.GetStatus().String()})
	})
}
