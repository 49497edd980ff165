package textgrid

import (
	"strings"
	"testing"

	"github.com/encryptabit/ams/internal/model"
	"github.com/encryptabit/ams/internal/normalize"
)

const sampleTextGrid = `File type = "ooTextFile"
Object class = "TextGrid"

xmin = 0
xmax = 1.2
tiers? <exists>
size = 1
item []:
    item [1]:
        class = "IntervalTier"
        name = "words"
        xmin = 0
        xmax = 1.2
        intervals: size = 3
        intervals [1]:
            xmin = 0
            xmax = 0.4
            text = "the"
        intervals [2]:
            xmin = 0.4
            xmax = 0.5
            text = ""
        intervals [3]:
            xmin = 0.5
            xmax = 0.9
            text = "cat"
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleTextGrid))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if doc.Xmax != 1.2 {
		t.Errorf("Xmax = %v, want 1.2", doc.Xmax)
	}
	words := WordsTier(doc)
	if len(words) != 3 {
		t.Fatalf("len(words) = %d, want 3 (empty-text interval retained)", len(words))
	}
	if words[1].Text != "" {
		t.Errorf("words[1].Text = %q, want empty (silence)", words[1].Text)
	}
	if words[2].Text != "cat" || words[2].Xmin != 0.5 {
		t.Errorf("words[2] = %+v", words[2])
	}
}

func intp(i int) *int { return &i }

func TestMerge(t *testing.T) {
	doc, _ := Parse(strings.NewReader(sampleTextGrid))
	tx := &model.TranscriptIndex{
		WordAligns: []model.WordAlign{
			{Kind: model.OpMatch, BookIndex: intp(0), BookText: "the"},
			{Kind: model.OpMatch, BookIndex: intp(1), BookText: "cat"},
		},
		Sentences: []model.SentenceAlign{{SentenceIndex: 0}},
		Paragraphs: []model.ParagraphAlign{{ParagraphIndex: 0}},
	}
	bookSentences := []model.SentenceRange{{Index: 0, Start: 0, End: 1}}
	bookParagraphs := []model.ParagraphRange{{Index: 0, Start: 0, End: 1}}
	ht := &model.HydratedTranscript{
		Words:     []model.HydratedWord{{}, {}},
		Sentences: []model.HydratedSentence{{SentenceIndex: 0}},
		Paragraphs: []model.HydratedParagraph{{ParagraphIndex: 0}},
	}

	res := Merge(doc, tx, ht, bookSentences, bookParagraphs, normalize.Options{})
	if res.Matched != 2 {
		t.Errorf("Matched = %d, want 2", res.Matched)
	}
	if tx.WordAligns[0].Start != 0 || tx.WordAligns[0].End != 0.4 {
		t.Errorf("WordAligns[0] timing = %+v", tx.WordAligns[0])
	}
	if tx.Sentences[0].StartSec != 0 || tx.Sentences[0].EndSec != 0.9 {
		t.Errorf("Sentences[0] timing = %+v", tx.Sentences[0])
	}
	if tx.Paragraphs[0].StartSec != 0 || tx.Paragraphs[0].EndSec != 0.9 {
		t.Errorf("Paragraphs[0] timing = %+v", tx.Paragraphs[0])
	}
	if ht.Words[0].StartSec != 0 || ht.Words[0].EndSec != 0.4 {
		t.Errorf("ht.Words[0] timing = %+v", ht.Words[0])
	}
	if ht.Sentences[0].StartSec != 0 || ht.Sentences[0].EndSec != 0.9 {
		t.Errorf("ht.Sentences[0] timing = %+v", ht.Sentences[0])
	}
	if ht.Paragraphs[0].StartSec != 0 || ht.Paragraphs[0].EndSec != 0.9 {
		t.Errorf("ht.Paragraphs[0] timing = %+v", ht.Paragraphs[0])
	}
}
