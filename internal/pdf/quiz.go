package pdf

import (
	"fmt"

	"studygen/internal/domain"

	"github.com/mozillazg/go-unidecode"
)

// Quiz renders the questions and options without answers, suitable for
// handing out.
func Quiz(title string, items []domain.QuizItem) ([]byte, error) {
	doc := newDoc()

	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 10, unidecode.Unidecode(title), "", 1, "", false, 0, "")
	doc.Ln(6)
	doc.SetFont("Arial", "", 12)

	for i, q := range items {
		doc.MultiCell(0, 8, unidecode.Unidecode(fmt.Sprintf("Q%d. (%s) %s", i+1, q.Difficulty, q.Question)), "", "", false)
		for idx, opt := range q.Options {
			doc.MultiCell(0, 8, unidecode.Unidecode(fmt.Sprintf("   %s) %s", domain.OptionLabel(idx), opt)), "", "", false)
		}
		doc.Ln(2)
	}

	return output(doc)
}

// AnswerKey renders each question with its correct option.
func AnswerKey(title string, items []domain.QuizItem) ([]byte, error) {
	doc := newDoc()

	doc.SetFont("Arial", "B", 14)
	doc.CellFormat(0, 10, unidecode.Unidecode(title), "", 1, "", false, 0, "")
	doc.Ln(6)
	doc.SetFont("Arial", "", 12)

	for i, q := range items {
		doc.MultiCell(0, 8, unidecode.Unidecode(fmt.Sprintf("Q%d. %s", i+1, q.Question)), "", "", false)
		doc.MultiCell(0, 8, unidecode.Unidecode(fmt.Sprintf("Correct: %s) %s", domain.OptionLabel(q.Answer), q.CorrectOption())), "", "", false)
		doc.Ln(2)
	}

	return output(doc)
}
