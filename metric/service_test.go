package metric

import (
	"github.com/stretchr/testify/assert"
	"github.com/viant/gmetric"
	"testing"
)

func TestService_Counter(t *testing.T) {
	var testCases = []struct {
		description string
		service     *Service
	}{
		{description: "gmetric backed", service: NewService(gmetric.New())},
		{description: "nil service", service: nil},
		{description: "nil metrics", service: NewService(nil)},
	}
	for _, testCase := range testCases {
		aCounter := testCase.service.Counter(SpecBuild)
		assert.NotNil(t, aCounter, testCase.description)
		assert.NotPanics(t, func() {
			done := aCounter.Track()
			aCounter.Count(Miss)
			done(Built)
		}, testCase.description)
	}
	var nop *Counter
	assert.Equal(t, int64(0), nop.Count(Hit))
	assert.NotPanics(t, func() { nop.Track()(Failed) })
	service := NewService(gmetric.New())
	assert.Same(t, service.Counter(Consent), service.Counter(Consent))
	assert.NotNil(t, service.Metrics().LookupOperation(Consent))
}
