// ABOUTME: Controlled vocabularies for body parts and medication methods.
// ABOUTME: Custom body parts and medication names extend these at runtime.
package models

// DefaultBodyParts is the built-in body-part vocabulary.
var DefaultBodyParts = []string{
	"头部", "眼部", "呼吸道", "心脏", "胃肠", "皮肤", "关节", "肌肉", "睡眠/精神", "体温",
}

// IsDefaultBodyPart reports whether part is in DefaultBodyParts.
func IsDefaultBodyPart(part string) bool {
	for _, p := range DefaultBodyParts {
		if p == part {
			return true
		}
	}
	return false
}

// Method is how a medication was administered.
type Method string

const (
	MethodOral       Method = "oral"
	MethodExternal   Method = "external"
	MethodInjection  Method = "injection"
	MethodInhalation Method = "inhalation"
	MethodOther      Method = "other"
)

// AllMethods lists every method in display order.
var AllMethods = []Method{MethodOral, MethodExternal, MethodInjection, MethodInhalation, MethodOther}

// MethodLabels maps methods to their display labels.
var MethodLabels = map[Method]string{
	MethodOral:       "口服",
	MethodExternal:   "外用",
	MethodInjection:  "注射",
	MethodInhalation: "吸入",
	MethodOther:      "其他",
}

// IsValidMethod checks if a string is a known method.
func IsValidMethod(s string) bool {
	for _, m := range AllMethods {
		if string(m) == s {
			return true
		}
	}
	return false
}
