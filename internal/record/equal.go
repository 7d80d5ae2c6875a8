package record

// Equal reports whether two case records are structurally identical,
// including question, respondent, and answer order.
func Equal(a, b CaseRecord) bool {
	if len(a.Questions) != len(b.Questions) || len(a.Responses) != len(b.Responses) {
		return false
	}
	for i := range a.Questions {
		if !questionsEqual(a.Questions[i], b.Questions[i]) {
			return false
		}
	}
	for i := range a.Responses {
		if !respondentsEqual(a.Responses[i], b.Responses[i]) {
			return false
		}
	}
	return true
}

func questionsEqual(a, b QuestionDefinition) bool {
	if a.Key != b.Key || a.Text != b.Text || (a.Group == nil) != (b.Group == nil) {
		return false
	}
	if a.Group == nil {
		return true
	}
	if a.Group.BaseQuestion != b.Group.BaseQuestion || len(a.Group.SubQuestions) != len(b.Group.SubQuestions) {
		return false
	}
	for i := range a.Group.SubQuestions {
		if a.Group.SubQuestions[i] != b.Group.SubQuestions[i] {
			return false
		}
	}
	return true
}

func respondentsEqual(a, b RespondentRecord) bool {
	if a.ID != b.ID || len(a.Answers) != len(b.Answers) {
		return false
	}
	for i := range a.Answers {
		x, y := a.Answers[i], b.Answers[i]
		if x.Key != y.Key || x.Grouped != y.Grouped || x.Value != y.Value || len(x.Group) != len(y.Group) {
			return false
		}
		for j := range x.Group {
			if x.Group[j] != y.Group[j] {
				return false
			}
		}
	}
	return true
}
