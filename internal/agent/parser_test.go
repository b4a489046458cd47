package agent

import (
	"errors"
	"testing"
)

func TestParse_ActionDirective(t *testing.T) {
	out := "Thought: Yönetmeliği aramalıyım.\nAction: retrieve\nAction Input: \"öğrenci kulübü kurma şartları\""
	step, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if step.IsFinal {
		t.Fatal("directive parsed as final answer")
	}
	if step.Thought != "Yönetmeliği aramalıyım." {
		t.Errorf("Thought=%q", step.Thought)
	}
	if step.Action != "retrieve" {
		t.Errorf("Action=%q", step.Action)
	}
	if step.ActionInput != "öğrenci kulübü kurma şartları" {
		t.Errorf("ActionInput=%q", step.ActionInput)
	}
}

func TestParse_FinalAnswer(t *testing.T) {
	out := "Thought: Yeterli bilgi var.\nFinal Answer: Kulüp kurmak için dilekçe gerekir.\nKaynak: kulup_yonetmeligi.pdf, MADDE: 5 (1)"
	step, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !step.IsFinal {
		t.Fatal("final answer not recognized")
	}
	want := "Kulüp kurmak için dilekçe gerekir.\nKaynak: kulup_yonetmeligi.pdf, MADDE: 5 (1)"
	if step.FinalAnswer != want {
		t.Errorf("FinalAnswer=%q", step.FinalAnswer)
	}
}

func TestParse_FinalAnswerWinsOverLaterAction(t *testing.T) {
	out := "Final Answer: Bitti.\nAction: retrieve\nAction Input: \"x\""
	step, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !step.IsFinal {
		t.Fatal("expected final answer")
	}
}

func TestParse_Unparsable(t *testing.T) {
	cases := []string{
		"Sadece serbest metin, hiçbir yapı yok.",
		"Action: retrieve",
		"Action Input: \"girdi var ama eylem yok\"",
		"",
	}
	for _, out := range cases {
		if _, err := Parse(out); !errors.Is(err, ErrUnparsable) {
			t.Errorf("Parse(%q) err=%v, want ErrUnparsable", out, err)
		}
	}
}

func TestParse_UnquotesInput(t *testing.T) {
	for _, in := range []string{"Action: retrieve\nAction Input: 'ders kaydı'", "Action: retrieve\nAction Input: ders kaydı"} {
		step, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if step.ActionInput != "ders kaydı" {
			t.Errorf("ActionInput=%q", step.ActionInput)
		}
	}
}

func TestHasCitation(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Kaynak: kulup_yonetmeligi.pdf, MADDE: 5 (1)", true},
		{"Cevap metni.\nKaynak: sinav_yonergesi.pdf, MADDE: ?", true},
		{"Kaynak: a.pdf MADDE: 3", false},
		{"Bu konuda elimde bilgi yok.", false},
		{"", false},
	}
	for _, c := range cases {
		if got := HasCitation(c.text); got != c.want {
			t.Errorf("HasCitation(%q)=%v, want %v", c.text, got, c.want)
		}
	}
}
