package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsFailure_MapsClientKinds(t *testing.T) {
	cases := []struct {
		err  error
		want FailureKind
	}{
		{&APIError{Kind: APIErrInvalidToken}, FailInvalidToken},
		{&APIError{Kind: APIErrExpiredToken}, FailExpiredToken},
		{ConfigValidationError("token", "too short"), FailConfigValidation},
		{&APIError{Kind: APIErrJSONParse, Endpoint: "/user/repos", Message: "bad body"}, FailJSONDecode},
		{&APIError{Kind: APIErrRateLimit}, FailGeneral},
		{errors.New("plain"), FailGeneral},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AsFailure(tc.err).Kind, "error %v", tc.err)
	}
}

func TestAsFailure_UnwrapsThroughWrapping(t *testing.T) {
	inner := &APIError{Kind: APIErrExpiredToken}
	wrapped := fmt.Errorf("fetching projects: %w", inner)
	assert.Equal(t, FailExpiredToken, AsFailure(wrapped).Kind)
}

func TestAsFailure_PassthroughFailure(t *testing.T) {
	f := Failure{Kind: FailConfigSave, Path: "/tmp/config.yaml", Message: "disk full"}
	assert.Equal(t, f, AsFailure(f))
}

func TestFailure_Messages(t *testing.T) {
	assert.Contains(t, Failure{Kind: FailInvalidToken}.Error(), "invalid")
	assert.Contains(t, Failure{Kind: FailExpiredToken}.Error(), "expired")
	assert.Contains(t,
		Failure{Kind: FailConfigFileNotFound, Path: "/etc/dash.yaml"}.Error(),
		"/etc/dash.yaml")
	assert.Equal(t, "boom", GeneralFailure("%s", "boom").Error())
}
