package format

// Turtle namespace declarations. Producers and the consistency checker
// must agree on these byte-for-byte.
const (
	PrefixSurvey        = "@prefix : <http://example.org/survey#> ."
	PrefixPredicate     = "@prefix pred: <http://example.org/predicate#> ."
	PrefixQuestionGroup = "@prefix qg: <http://example.org/question_group#> ."
)

// Turtle predicate and relation names.
const (
	PredBaseQuestion     = "pred:BaseQuestion"
	PredText             = "pred:Text"
	PredHasGroupResponse = "pred:hasGroupResponse"
	RelHasSubQuestion    = "qg:hasSubQuestion"
)

// Prefixes lists the namespace declarations in emission order.
var Prefixes = []string{PrefixSurvey, PrefixPredicate, PrefixQuestionGroup}
