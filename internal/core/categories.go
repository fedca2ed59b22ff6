package core

// categories holds the chapter table in lookup order.
// Ranges do not overlap, so at most one chapter contains any range.
var categories = []CategoryRange{
	{"Certain infectious or parasitic diseases", "1A00", "1H0Z"},
	{"Neoplasms", "2A00", "2F9Z"},
	{"Diseases of the blood or blood-forming organs", "3A00", "3C0Z"},
	{"Diseases of the immune system", "4A00", "4B4Z"},
	{"Endocrine, nutritional or metabolic diseases", "5A00", "5D46"},
	{"Mental, behavioral and neurodevelopmental disorders", "6A00", "6E8Z"},
	{"Sleep-wake disorders", "7A00", "7B2Z"},
	{"Diseases of the nervous system", "8A00", "8E7Z"},
	{"Diseases of the visual system", "9A00", "9E1Z"},
	{"Diseases of the ear or mastoid process", "AA00", "AC0Z"},
	{"Diseases of the circulatory system", "BA00", "BE2Z"},
	{"Diseases of the respiratory system", "CA00", "CB7Z"},
	{"Diseases of the digestive system", "DA00", "DE2Z"},
	{"Diseases of the skin and subcutaneous tissue", "EA00", "EM0Z"},
	{"Diseases of the musculoskeletal system or connective tissue", "FA00", "FC0Z"},
	{"Diseases of genitourinary system", "GA00", "GC8Z"},
	{"Conditions related to sexual health", "HA00", "HA8Z"},
	{"Pregnancy, childbirth or puerperium", "JA00", "JB6Z"},
	{"Certain conditions originating in perinatal period", "KA00", "KD5Z"},
	{"Developmental anomalies", "LA00", "LD9Z"},
	{"Symptoms, signs or clinical findings not elsewhere classified", "MA00", "MH2Y"},
	{"Injury, poisoning or certain consequences of external causes", "NA00", "NF2Z"},
	{"External causes of morbidity or mortality", "PA00", "PL2Z"},
	{"Factors influencing health status or contact with health services", "QA00", "QF4Z"},
	{"Codes for special purposes", "RA00", "RA26"},
	{"Supplementary chapter: Traditional medicine conditions (Module 1)", "SA00", "ST2Z"},
	{"Supplementary section for functioning assessment", "VA00", "VC50"},
	// Six-character start: lexicographic order puts "XA00" below it.
	{"Extension codes", "XA0060", "XY9U"},
}

// Categories returns a copy of the chapter table in lookup order.
func Categories() []CategoryRange {
	out := make([]CategoryRange, len(categories))
	copy(out, categories)
	return out
}

// CategoryCount returns the number of chapters.
func CategoryCount() int {
	return len(categories)
}

// LookupCategory returns the first chapter that fully contains [start, end].
// A range spanning two chapters, or lying outside all of them, yields false.
func LookupCategory(start, end DiagnosisCode) (CategoryRange, bool) {
	for _, c := range categories {
		if c.Contains(start, end) {
			return c, true
		}
	}
	return CategoryRange{}, false
}

// ClassifyCode returns the chapter containing a single code.
func ClassifyCode(code DiagnosisCode) (CategoryRange, bool) {
	return LookupCategory(code, code)
}
