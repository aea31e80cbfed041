// Package i18n holds the UI string tables for the converter page.
package i18n

// DefaultLocale is used whenever a request carries no or an unknown
// locale.
const DefaultLocale = "zh-TW"

// Locale pairs a code with its self-described display name for the
// language selector.
type Locale struct {
	Code string
	Name string
}

// SupportedLocales lists the selectable languages in display order.
var SupportedLocales = []Locale{
	{Code: "zh-TW", Name: "繁體中文"},
	{Code: "zh-CN", Name: "简体中文"},
	{Code: "en", Name: "English"},
	{Code: "ja", Name: "日本語"},
	{Code: "vi", Name: "Tiếng Việt"},
	{Code: "th", Name: "ภาษาไทย"},
}

var tables = map[string]map[string]string{
	"zh-TW": {
		"page_title":         "加密貨幣與各國匯率換算工具",
		"last_updated":       "最後更新時間",
		"currency_converter": "貨幣換算器",
		"realtime_rates":     "實時匯率",
		"amount":             "金額",
		"amount_placeholder": "請輸入金額",
		"from":               "從",
		"to":                 "兌換至",
		"select_currency":    "請選擇貨幣",
		"convert":            "轉換",
		"cryptocurrencies":   "加密貨幣",
		"fiat_currencies":    "法定貨幣",
		"currency":           "貨幣",
		"price_usd":          "價格 (USD)",
		"change_24h":         "24小時變動",
		"exchange_rate":      "匯率",
		"crypto_in_usd":      "加密貨幣 (以美元計價)",
		"fiat_in_usd":        "法定貨幣 (以美元計價)",
		"copyright":          "本網站僅供參考，不構成任何投資建議",
		"enter_valid_amount": "請輸入有效金額",
		"select_currencies":  "請選擇貨幣",
		"conversion_failed":  "轉換請求失敗",
		"error_try_later":    "轉換過程中發生錯誤，請稍後再試",
	},
	"zh-CN": {
		"page_title":         "加密货币与各国汇率换算工具",
		"last_updated":       "最后更新时间",
		"currency_converter": "货币换算器",
		"realtime_rates":     "实时汇率",
		"amount":             "金额",
		"amount_placeholder": "请输入金额",
		"from":               "从",
		"to":                 "兑换至",
		"select_currency":    "请选择货币",
		"convert":            "转换",
		"cryptocurrencies":   "加密货币",
		"fiat_currencies":    "法定货币",
		"currency":           "货币",
		"price_usd":          "价格 (USD)",
		"change_24h":         "24小时变动",
		"exchange_rate":      "汇率",
		"crypto_in_usd":      "加密货币 (以美元计价)",
		"fiat_in_usd":        "法定货币 (以美元计价)",
		"copyright":          "本网站仅供参考，不构成任何投资建议",
		"enter_valid_amount": "请输入有效金额",
		"select_currencies":  "请选择货币",
		"conversion_failed":  "转换请求失败",
		"error_try_later":    "转换过程中发生错误，请稍后再试",
	},
	"en": {
		"page_title":         "Cryptocurrency & Currency Exchange Rate Calculator",
		"last_updated":       "Last Updated",
		"currency_converter": "Currency Converter",
		"realtime_rates":     "Real-time Exchange Rates",
		"amount":             "Amount",
		"amount_placeholder": "Enter amount",
		"from":               "From",
		"to":                 "To",
		"select_currency":    "Select currency",
		"convert":            "Convert",
		"cryptocurrencies":   "Cryptocurrencies",
		"fiat_currencies":    "Fiat Currencies",
		"currency":           "Currency",
		"price_usd":          "Price (USD)",
		"change_24h":         "24h Change",
		"exchange_rate":      "Exchange Rate",
		"crypto_in_usd":      "Cryptocurrencies (in USD)",
		"fiat_in_usd":        "Fiat Currencies (in USD)",
		"copyright":          "This website is for reference only and does not constitute investment advice",
		"enter_valid_amount": "Please enter a valid amount",
		"select_currencies":  "Please select currencies",
		"conversion_failed":  "Conversion request failed",
		"error_try_later":    "An error occurred during conversion, please try again later",
	},
	"ja": {
		"page_title":         "暗号通貨と通貨為替レート計算ツール",
		"last_updated":       "最終更新",
		"currency_converter": "通貨コンバーター",
		"realtime_rates":     "リアルタイム為替レート",
		"amount":             "金額",
		"amount_placeholder": "金額を入力してください",
		"from":               "から",
		"to":                 "へ",
		"select_currency":    "通貨を選択",
		"convert":            "変換",
		"cryptocurrencies":   "暗号通貨",
		"fiat_currencies":    "法定通貨",
		"currency":           "通貨",
		"price_usd":          "価格 (USD)",
		"change_24h":         "24時間変動",
		"exchange_rate":      "為替レート",
		"crypto_in_usd":      "暗号通貨 (USDベース)",
		"fiat_in_usd":        "法定通貨 (USDベース)",
		"copyright":          "このウェブサイトは参考用であり、投資アドバイスを構成するものではありません",
		"enter_valid_amount": "有効な金額を入力してください",
		"select_currencies":  "通貨を選択してください",
		"conversion_failed":  "変換リクエストが失敗しました",
		"error_try_later":    "変換中にエラーが発生しました。後でもう一度お試しください",
	},
	"vi": {
		"page_title":         "Công Cụ Quy Đổi Tiền Điện Tử & Tỷ Giá Tiền Tệ",
		"last_updated":       "Cập nhật lần cuối",
		"currency_converter": "Công Cụ Chuyển Đổi Tiền Tệ",
		"realtime_rates":     "Tỷ Giá Thời Gian Thực",
		"amount":             "Số lượng",
		"amount_placeholder": "Nhập số tiền",
		"from":               "Từ",
		"to":                 "Đến",
		"select_currency":    "Chọn tiền tệ",
		"convert":            "Chuyển đổi",
		"cryptocurrencies":   "Tiền điện tử",
		"fiat_currencies":    "Tiền pháp định",
		"currency":           "Tiền tệ",
		"price_usd":          "Giá (USD)",
		"change_24h":         "Thay đổi 24h",
		"exchange_rate":      "Tỷ giá",
		"crypto_in_usd":      "Tiền điện tử (tính bằng USD)",
		"fiat_in_usd":        "Tiền pháp định (tính bằng USD)",
		"copyright":          "Trang web này chỉ để tham khảo và không cấu thành lời khuyên đầu tư",
		"enter_valid_amount": "Vui lòng nhập số tiền hợp lệ",
		"select_currencies":  "Vui lòng chọn tiền tệ",
		"conversion_failed":  "Yêu cầu chuyển đổi thất bại",
		"error_try_later":    "Đã xảy ra lỗi trong quá trình chuyển đổi, vui lòng thử lại sau",
	},
	"th": {
		"page_title":         "เครื่องมือแปลงอัตราแลกเปลี่ยนสกุลเงินดิจิทัลและสกุลเงินต่างๆ",
		"last_updated":       "อัปเดตล่าสุด",
		"currency_converter": "เครื่องแปลงสกุลเงิน",
		"realtime_rates":     "อัตราแลกเปลี่ยนเรียลไทม์",
		"amount":             "จำนวน",
		"amount_placeholder": "กรอกจำนวนเงิน",
		"from":               "จาก",
		"to":                 "ไปยัง",
		"select_currency":    "เลือกสกุลเงิน",
		"convert":            "แปลง",
		"cryptocurrencies":   "สกุลเงินดิจิทัล",
		"fiat_currencies":    "สกุลเงินทั่วไป",
		"currency":           "สกุลเงิน",
		"price_usd":          "ราคา (USD)",
		"change_24h":         "เปลี่ยนแปลง 24 ชม.",
		"exchange_rate":      "อัตราแลกเปลี่ยน",
		"crypto_in_usd":      "สกุลเงินดิจิทัล (เทียบกับ USD)",
		"fiat_in_usd":        "สกุลเงินทั่วไป (เทียบกับ USD)",
		"copyright":          "เว็บไซต์นี้ใช้สำหรับอ้างอิงเท่านั้นและไม่ได้เป็นคำแนะนำในการลงทุน",
		"enter_valid_amount": "กรุณากรอกจำนวนเงินที่ถูกต้อง",
		"select_currencies":  "กรุณาเลือกสกุลเงิน",
		"conversion_failed":  "การแปลงสกุลเงินล้มเหลว",
		"error_try_later":    "เกิดข้อผิดพลาดระหว่างการแปลงสกุลเงิน โปรดลองใหม่ภายหลัง",
	},
}

// Normalize maps an arbitrary locale string to a supported one.
func Normalize(locale string) string {
	if _, ok := tables[locale]; ok {
		return locale
	}
	return DefaultLocale
}

// T resolves a key in the given locale, falling back to the default
// locale and finally to the key itself.
func T(locale, key string) string {
	table, ok := tables[locale]
	if !ok {
		table = tables[DefaultLocale]
	}
	if text, ok := table[key]; ok {
		return text
	}
	if text, ok := tables[DefaultLocale][key]; ok {
		return text
	}
	return key
}

// Table returns the whole table for a locale, for template rendering.
func Table(locale string) map[string]string {
	return tables[Normalize(locale)]
}
