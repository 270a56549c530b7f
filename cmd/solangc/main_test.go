package main

import (
	"reflect"
	"testing"
)

func TestParseRemappings(t *testing.T) {
	got := parseRemappings([]string{"@lib/=vendor/", "@openzeppelin/=lib/openzeppelin-contracts/"})
	want := map[string]string{
		"@lib/":          "vendor/",
		"@openzeppelin/": "lib/openzeppelin-contracts/",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseRemappings() = %v, want %v", got, want)
	}
}

func TestParseRemappingsIgnoresEntryWithoutEquals(t *testing.T) {
	got := parseRemappings([]string{"no-equals-sign"})
	if _, ok := got["no-equals-sign"]; ok {
		t.Fatalf("expected malformed entry to be dropped, got %v", got)
	}
}
