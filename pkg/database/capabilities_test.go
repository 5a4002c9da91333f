package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"staffline/backend/config"
)

type stubProber struct {
	has   bool
	calls int
}

func (p *stubProber) HasColumn(table, column string) bool {
	p.calls++
	return p.has && table == "shifts" && column == "is_marketplace"
}

func TestDetectCapabilities(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		hasColumn bool
		want      bool
		probed    bool
	}{
		{"auto 且列存在", config.FlagColumnAuto, true, true, true},
		{"auto 且列缺失", config.FlagColumnAuto, false, false, true},
		{"强制开启", config.FlagColumnOn, false, true, false},
		{"强制关闭", config.FlagColumnOff, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubProber{has: tt.hasColumn}
			caps := DetectCapabilities(p, tt.mode, zap.NewNop())
			assert.Equal(t, tt.want, caps.MarketplaceFlag)
			assert.Equal(t, tt.probed, p.calls > 0)
		})
	}
}
