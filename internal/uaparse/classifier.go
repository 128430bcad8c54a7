// Package uaparse 把原始 User-Agent 字符串归类为浏览器 / 操作系统 / 设备类型。
// 纯函数，无状态，无错误路径：识别不出来的字段一律归为 Unknown。
package uaparse

import (
	"github.com/mssola/useragent"
)

const Unknown = "Unknown"

const (
	DeviceDesktop = "Desktop"
	DeviceMobile  = "Mobile"
	DeviceBot     = "Bot"
)

// Classify 解析 User-Agent。空输入返回全 Unknown。
func Classify(raw string) (browser, os, device string) {
	if raw == "" {
		return Unknown, Unknown, Unknown
	}

	ua := useragent.New(raw)

	browser, _ = ua.Browser()
	osName := ua.OS()
	engine, _ := ua.Engine()

	// 识别不出的 UA 会把首个产品标记原样当浏览器名返回；
	// 既没有引擎也没有操作系统（且不是爬虫）就按未识别处理，
	// 不让任意字符串流进统计维度
	if browser == "" || (engine == "" && osName == "" && !ua.Bot()) {
		browser = Unknown
	}

	os = osName
	if os == "" {
		os = Unknown
	}

	switch {
	case ua.Bot():
		device = DeviceBot
	case ua.Mobile():
		device = DeviceMobile
	default:
		device = DeviceDesktop
	}

	return browser, os, device
}
