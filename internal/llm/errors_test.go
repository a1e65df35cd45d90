package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, Classify(nil))
}

func TestClassify_DeadlineExceededIsTransient(t *testing.T) {
	err := Classify(fmt.Errorf("call: %w", context.DeadlineExceeded))
	assert.True(t, IsTransient(err))
}

func TestClassify_CanceledIsPermanent(t *testing.T) {
	err := Classify(context.Canceled)
	assert.False(t, IsTransient(err))

	var pe *PermanentError
	assert.ErrorAs(t, err, &pe)
}

func TestClassify_StatusCodes(t *testing.T) {
	tests := []struct {
		code      int
		transient bool
	}{
		{429, true},
		{500, true},
		{503, true},
		{401, false},
		{403, false},
		{400, false},
		{422, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.code), func(t *testing.T) {
			err := Classify(&googleapi.Error{Code: tt.code})
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	orig := &PermanentError{Message: "already classified"}
	assert.Same(t, orig, Classify(orig).(*PermanentError))

	trans := &TransientError{Message: "also classified"}
	assert.Same(t, trans, Classify(trans).(*TransientError))
}

func TestClassify_UnknownDefaultsTransient(t *testing.T) {
	err := Classify(errors.New("connection reset by peer"))
	assert.True(t, IsTransient(err))
}

func TestClassify_Unwrap(t *testing.T) {
	cause := &googleapi.Error{Code: 401}
	err := Classify(cause)

	require.False(t, IsTransient(err))
	assert.ErrorIs(t, err, cause)
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, (&Config{Provider: ProviderOpenAI, Model: "gpt-4o"}).Validate())
	assert.Error(t, (&Config{Provider: ProviderOpenAI, APIKey: "k"}).Validate())
	assert.NoError(t, (&Config{Provider: ProviderOpenAI, Model: "gpt-4o", APIKey: "k"}).Validate())
}
