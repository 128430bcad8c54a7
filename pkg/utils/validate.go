package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// 短码限定 URL 安全字符集，长度 3-32
var shortCodePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,32}$`)

// ValidateShortCode 校验 ShortCode 是否合法
func ValidateShortCode(shortCode string) error {
	if shortCode == "" {
		return fmt.Errorf("error.shortcode_required")
	}

	if !shortCodePattern.MatchString(shortCode) {
		return fmt.Errorf("error.shortcode_invalid")
	}

	return nil
}

// IsValidShortCode 供 validator 自定义规则使用
func IsValidShortCode(shortCode string) bool {
	return shortCodePattern.MatchString(shortCode)
}

// ValidateTargetURL 校验目标 URL 的合法性
func ValidateTargetURL(targetURL string) error {
	// 1. 检查目标 URL 是否为空
	if targetURL == "" {
		return fmt.Errorf("error.target_url_required")
	}

	// 2. 仅允许 http/https
	if !strings.HasPrefix(targetURL, "http://") && !strings.HasPrefix(targetURL, "https://") {
		return fmt.Errorf("error.target_url_invalid")
	}

	// 3. URL 格式校验
	if _, err := url.ParseRequestURI(targetURL); err != nil {
		return fmt.Errorf("error.target_url_invalid")
	}

	// 4. URL 长度限制
	if len(targetURL) > 2048 {
		return fmt.Errorf("error.target_url_max_length")
	}
	return nil
}
