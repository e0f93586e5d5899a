package errors

import (
	"errors"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err: &AppError{
				Code:    ErrCodeNotFound,
				Message: "engagement not found",
			},
			want: "engagement not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to process",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to process: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &AppError{
		Code:    ErrCodeInternal,
		Message: "wrapped error",
		Cause:   cause,
	}

	if unwrapped := err.Unwrap(); !errors.Is(unwrapped, cause) {
		t.Errorf("AppError.Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantCode ErrorCode
		wantMsg  string
	}{
		{"not found", NotFound("engagement not found"), ErrCodeNotFound, "engagement not found"},
		{"not found formatted", NotFoundf("work item %s not found", "wi-1"), ErrCodeNotFound, "work item wi-1 not found"},
		{"conflict", Conflict("work item is running"), ErrCodeConflict, "work item is running"},
		{"conflict formatted", Conflictf("contradiction %s already resolved", "c-1"), ErrCodeConflict, "contradiction c-1 already resolved"},
		{"validation", Validation("invalid input"), ErrCodeValidation, "invalid input"},
		{"validation formatted", Validationf("invalid kind %q", "laundry"), ErrCodeValidation, `invalid kind "laundry"`},
		{"pipeline", Pipeline("research pipeline failed"), ErrCodePipeline, "research pipeline failed"},
		{"transient", Transient("queue unavailable"), ErrCodeTransient, "queue unavailable"},
		{"internal", Internal("internal server error"), ErrCodeInternal, "internal server error"},
		{"internal formatted", Internalf("stats for %s", "eng-1"), ErrCodeInternal, "stats for eng-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %v, want %v", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidationField(t *testing.T) {
	err := ValidationField("metric_type", "unknown metric type")
	if err.Code != ErrCodeValidation {
		t.Errorf("ValidationField().Code = %v, want %v", err.Code, ErrCodeValidation)
	}
	if err.Field != "metric_type" {
		t.Errorf("ValidationField().Field = %v, want %v", err.Field, "metric_type")
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, ErrCodeInternal, "wrapped error")

	if err.Code != ErrCodeInternal {
		t.Errorf("Wrap().Code = %v, want %v", err.Code, ErrCodeInternal)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Wrap() should match cause via errors.Is")
	}

	if wrapped := Wrap(nil, ErrCodeInternal, "wrapped error"); wrapped != nil {
		t.Errorf("Wrap(nil) = %v, want nil", wrapped)
	}
	if wrapped := Wrapf(nil, ErrCodeTransient, "retry %d", 3); wrapped != nil {
		t.Errorf("Wrapf(nil) = %v, want nil", wrapped)
	}
}

func TestCodePredicates(t *testing.T) {
	tests := []struct {
		name string
		pred func(error) bool
		err  error
		want bool
	}{
		{"not found matches", IsNotFound, NotFound("missing"), true},
		{"not found wrapped", IsNotFound, Wrap(NotFound("missing"), ErrCodeInternal, "outer"), false},
		{"not found mismatch", IsNotFound, Conflict("conflict"), false},
		{"conflict matches", IsConflict, Conflict("conflict"), true},
		{"validation matches", IsValidation, ValidationField("name", "required"), true},
		{"pipeline matches", IsPipeline, Pipeline("boom"), true},
		{"transient matches", IsTransient, Transient("queue down"), true},
		{"internal matches", IsInternal, Internal("oops"), true},
		{"standard error", IsNotFound, errors.New("standard error"), false},
		{"nil error", IsConflict, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.err); got != tt.want {
				t.Errorf("predicate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(NotFound("missing")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("standard error")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
	if got := GetCode(nil); got != "" {
		t.Errorf("GetCode(nil) = %v, want empty", got)
	}
}

func TestGetField(t *testing.T) {
	if got := GetField(ValidationField("email", "invalid")); got != "email" {
		t.Errorf("GetField() = %v, want email", got)
	}
	if got := GetField(NotFound("missing")); got != "" {
		t.Errorf("GetField() = %v, want empty", got)
	}
	if got := GetField(nil); got != "" {
		t.Errorf("GetField(nil) = %v, want empty", got)
	}
}
