package i18n_test

import (
	"testing"

	"github.com/waabox/catalogdeck/internal/i18n"
)

func TestMatch(t *testing.T) {
	cases := map[string]string{
		"fr":    "fr",
		"fr-CA": "fr",
		"en-GB": "en",
		"de":    "en",
		"":      "en",
		"???":   "en",
	}
	for in, want := range cases {
		if got := i18n.Match(in); got != want {
			t.Errorf("Match(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCatalog_TranslatesAndToggles(t *testing.T) {
	c := i18n.New("en")
	if got := c.T(i18n.ProductDeleted); got != "Product deleted" {
		t.Errorf("unexpected english text %q", got)
	}
	if c.Toggle() != "fr" {
		t.Fatal("expected toggle to switch to fr")
	}
	if got := c.T(i18n.ProductDeleted); got != "Produit supprimé" {
		t.Errorf("unexpected french text %q", got)
	}
	c.SetLang("en-US")
	if c.Lang() != "en" {
		t.Errorf("expected en, got %s", c.Lang())
	}
}

func TestCatalog_UnknownKeyRendersKey(t *testing.T) {
	c := i18n.New("fr")
	if got := c.T(i18n.Key("nope.missing")); got != "nope.missing" {
		t.Errorf("expected key fallback, got %q", got)
	}
}

func TestCatalog_EveryEnglishKeyHasFrench(t *testing.T) {
	en, fr := i18n.New("en"), i18n.New("fr")
	for _, k := range []i18n.Key{i18n.ToastServerUnreachable, i18n.ToastAccessDenied, i18n.ProductCreated, i18n.ConfirmDeleteTitle} {
		if en.T(k) == fr.T(k) {
			t.Errorf("expected distinct translation for %s", k)
		}
	}
}
