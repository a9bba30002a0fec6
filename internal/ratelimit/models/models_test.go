package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyEscapesIdentifier(t *testing.T) {
	assert.Equal(t, "rl:ip:10.0.0.1:public", Key(KeyPrefixIP, "10.0.0.1", ClassPublic))
	assert.Equal(t, "rl:ip:__1:public", Key(KeyPrefixIP, "::1", ClassPublic))
	assert.NotEqual(t,
		Key(KeyPrefixSubject, "a:session", ClassPublic),
		Key(KeyPrefixSubject, "a", ClassSession),
	)
}

func TestMaskIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"203.0.113.77", "203.0.113.0/24"},
		{"::ffff:203.0.113.77", "203.0.113.0/24"},
		{"2001:db8:abcd:12::1", "2001:db8:abcd::/48"},
		{"not-an-ip", "invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskIP(tt.in))
		})
	}
}

func TestEndpointClassIsValid(t *testing.T) {
	assert.True(t, ClassPublic.IsValid())
	assert.True(t, ClassSession.IsValid())
	assert.False(t, EndpointClass("auth").IsValid())
}
