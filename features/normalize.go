package features

// fatContentVariants maps the known noisy spellings of Item_Fat_Content onto
// the two canonical values. Anything else passes through untouched.
var fatContentVariants = map[string]string{
	"low fat": "Low Fat",
	"LF":      "Low Fat",
	"reg":     "Regular",
}

// Normalize canonicalizes a categorical value. Only Item_Fat_Content has a
// variant table; every other field is returned as is. Null is left for the
// imputer.
func Normalize(field string, v Value) Value {
	if field != ItemFatContent {
		return v
	}
	s, ok := v.Text()
	if !ok {
		return v
	}
	if canonical, known := fatContentVariants[s]; known {
		return Text(canonical)
	}
	return v
}
