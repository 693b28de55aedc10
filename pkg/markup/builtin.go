package markup

// Category names of the builtin table.
const (
	CatKeyword = "keyword"
	CatType    = "type"
	CatHeader  = "header"
	CatBuiltin = "builtin"
	CatString  = "string"
	CatComment = "comment"
)

var builtinCategories = []struct {
	name     string
	color    string
	quoted   bool
	patterns []string
}{
	{CatKeyword, "orange", false, []string{"if", "while", "and", "or", "return", "else", "not", "for", "to", "from", "step"}},
	{CatType, "purple", false, []string{"int", "float", "real", "bool", "str"}},
	{CatHeader, "red", false, []string{"def", "vars", "@[a-z]+"}},
	{CatBuiltin, "green", false, []string{"write", "read", "true", "false", "random"}},
	{CatString, "lime", true, []string{`"(.*?[^\\])*?"`}},
	{CatComment, "grey", false, []string{`//.*?\n`}},
}
