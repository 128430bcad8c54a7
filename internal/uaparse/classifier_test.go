package uaparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDesktopBrowser(t *testing.T) {
	browser, os, device := Classify("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	assert.Equal(t, "Chrome", browser)
	assert.Equal(t, "Windows 10", os)
	assert.Equal(t, DeviceDesktop, device)
}

func TestClassifyMobileBrowser(t *testing.T) {
	browser, _, device := Classify("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	assert.Equal(t, "Safari", browser)
	assert.Equal(t, DeviceMobile, device)
}

func TestClassifyBot(t *testing.T) {
	_, _, device := Classify("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.Equal(t, DeviceBot, device)
}

func TestClassifyEmpty(t *testing.T) {
	browser, os, device := Classify("")
	assert.Equal(t, Unknown, browser)
	assert.Equal(t, Unknown, os)
	assert.Equal(t, Unknown, device)
}

func TestClassifyGarbage(t *testing.T) {
	// 任意产品标记不能原样进入浏览器维度
	for _, raw := range []string{"definitely-not-a-user-agent", "zzzz", "zzzz/1.0"} {
		browser, os, device := Classify(raw)
		assert.Equal(t, Unknown, browser, raw)
		assert.Equal(t, Unknown, os, raw)
		assert.Equal(t, DeviceDesktop, device, raw)
	}
}
