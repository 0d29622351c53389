package extract

import "testing"

func TestSentences_Basic(t *testing.T) {
	text := "Inflows rose sharply. The trend continued into Q3! Will it hold?"
	sentences := Sentences(text)

	if len(sentences) != 3 {
		t.Fatalf("Expected 3 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "Inflows rose sharply." {
		t.Errorf("Unexpected first sentence: %q", sentences[0])
	}
}

func TestSentences_DecimalNotSplit(t *testing.T) {
	sentences := Sentences("The fund returned 12.5 percent last year. Investors took notice.")
	if len(sentences) != 2 {
		t.Fatalf("Expected decimal to survive splitting, got %d sentences: %v", len(sentences), sentences)
	}
	if sentences[0] != "The fund returned 12.5 percent last year." {
		t.Errorf("Unexpected sentence: %q", sentences[0])
	}
}

func TestNumericSentences(t *testing.T) {
	text := "SIP inflows reached $2B in Q3. Sentiment was broadly positive. Redemptions fell 8%."
	numeric := NumericSentences(text)

	if len(numeric) != 2 {
		t.Fatalf("Expected 2 numeric sentences, got %d: %v", len(numeric), numeric)
	}
	if numeric[1] != "Redemptions fell 8%." {
		t.Errorf("Unexpected second numeric sentence: %q", numeric[1])
	}
}

func TestNumericSentences_YearOnlyIsNotNumeric(t *testing.T) {
	numeric := NumericSentences("The fund launched in 2019. It grew to $1B afterwards.")
	if len(numeric) != 1 {
		t.Fatalf("Expected 1 numeric sentence, got %d: %v", len(numeric), numeric)
	}
}
