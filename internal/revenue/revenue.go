// Package revenue 负责将金额划分到固定的区间，并格式化成展示用的货币字符串
package revenue

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	Bucket0To10K    = "0-10k"
	Bucket10To50K   = "10-50k"
	Bucket50To100K  = "50-100k"
	Bucket100To200K = "100-200k"
	Bucket200To300K = "200-300k"
)

// Buckets 按从低到高的顺序列出所有区间
var Buckets = []string{Bucket0To10K, Bucket10To50K, Bucket50To100K, Bucket100To200K, Bucket200To300K}

// Bucket 返回 amount 所在的区间，区间左闭右开。
// amount 必须非负，负数的结果没有意义。
func Bucket(amount float64) string {
	switch {
	case amount < 10_000:
		return Bucket0To10K
	case amount < 50_000:
		return Bucket10To50K
	case amount < 100_000:
		return Bucket50To100K
	case amount < 200_000:
		return Bucket100To200K
	default:
		return Bucket200To300K
	}
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency 将金额四舍五入到整数美元，例如 $150,000，只用于展示
func FormatCurrency(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-$" + printer.Sprintf("%d", -rounded)
	}
	return "$" + printer.Sprintf("%d", rounded)
}
