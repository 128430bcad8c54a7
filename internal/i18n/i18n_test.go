package i18n

import (
	"context"
	"testing"

	thirdPartyI18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadBundle(t *testing.T) *thirdPartyI18n.Bundle {
	t.Helper()
	bundle, err := InitI18n([]string{
		"../../i18n/en.toml",
		"../../i18n/zh.toml",
	}, "en")
	require.NoError(t, err)
	return bundle
}

func TestInitI18nRegistersLanguages(t *testing.T) {
	loadBundle(t)
	assert.Equal(t, []string{"en", "zh"}, SupportedLanguages)
}

func TestTLocalizesPerLanguage(t *testing.T) {
	bundle := loadBundle(t)

	enCtx := context.WithValue(context.Background(), LocalizerContextKey, thirdPartyI18n.NewLocalizer(bundle, "en"))
	assert.Equal(t, "Link not found", T(enCtx, "error.link_not_found"))

	zhCtx := context.WithValue(context.Background(), LocalizerContextKey, thirdPartyI18n.NewLocalizer(bundle, "zh"))
	assert.Equal(t, "链接不存在", T(zhCtx, "error.link_not_found"))
}

func TestTFallsBackToKey(t *testing.T) {
	// 上下文里没有 localizer，或消息缺失，都直接返回 key
	assert.Equal(t, "error.link_not_found", T(context.Background(), "error.link_not_found"))

	bundle := loadBundle(t)
	ctx := context.WithValue(context.Background(), LocalizerContextKey, thirdPartyI18n.NewLocalizer(bundle, "en"))
	assert.Equal(t, "error.no_such_key", T(ctx, "error.no_such_key"))
}
