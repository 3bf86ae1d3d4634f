package interview

// Category identifies one facial region covered by the interview.
type Category string

const (
	Face  Category = "face"
	Eyes  Category = "eyes"
	Nose  Category = "nose"
	Mouth Category = "mouth"
	Ears  Category = "ears"
	Hair  Category = "hair"
)

// categoryOrder fixes the interview sequence. The cursor in a Session is an
// index into this slice.
var categoryOrder = []Category{Face, Eyes, Nose, Mouth, Ears, Hair}

// requiredFields lists the fields that must be filled before a category
// counts as answered. Extra fields (skin tone, free-text notes) are kept but
// never gate progress.
var requiredFields = map[Category][]string{
	Face:  {"shape"},
	Eyes:  {"shape", "color"},
	Nose:  {"shape"},
	Mouth: {"shape"},
	Ears:  {"shape"},
	Hair:  {"style", "color"},
}

// prompts holds the question asked while a category is still open.
var prompts = map[Category]string{
	Face:  "What is the overall shape of the face? For example round, oval, square or long.",
	Eyes:  "Tell me about the eyes: their shape and their color.",
	Nose:  "How would you describe the nose? Straight, hooked, flat, wide?",
	Mouth: "What about the mouth and lips? Thin, full, wide, small?",
	Ears:  "Anything notable about the ears? Small, large, protruding?",
	Hair:  "Finally, describe the hair: style and color.",
}

// Categories returns the fixed interview order.
func Categories() []Category {
	return categoryOrder
}

// CategoryCount returns the number of interview categories; a cursor equal
// to it marks a finished interview.
func CategoryCount() int {
	return len(categoryOrder)
}

// Known reports whether a category belongs to the schema.
func Known(c Category) bool {
	_, ok := requiredFields[c]
	return ok
}

// RequiredFields returns the fields that gate completion of a category.
func RequiredFields(c Category) []string {
	return requiredFields[c]
}

// Prompt returns the fixed question text for a category.
func Prompt(c Category) string {
	return prompts[c]
}
