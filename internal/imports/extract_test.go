package imports

import (
	"reflect"
	"sort"
	"testing"

	"codedigest/internal/lang"
)

func extractSorted(t *testing.T, src string, l lang.Language) []string {
	t.Helper()
	out := Extract([]byte(src), l, "")
	sort.Strings(out)
	return out
}

func TestExtractJS(t *testing.T) {
	src := `
import React from 'react'
import { helper } from './util'
import './styles.css'
import * as api from '@/lib/api'
export { thing } from '../shared/thing'
const legacy = require('./legacy')
const lodash = require('lodash')
`
	got := extractSorted(t, src, lang.JS)
	want := []string{"../shared/thing", "./legacy", "./styles.css", "./util", "@/lib/api"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExtractJSDiscardsBareSpecifiers(t *testing.T) {
	src := `
import express from 'express'
const fs = require('fs')
`
	if got := Extract([]byte(src), lang.JS, ""); len(got) != 0 {
		t.Fatalf("external packages must be discarded, got %v", got)
	}
}

func TestExtractPython(t *testing.T) {
	src := `
import os
import app.models, app.views
from .helpers import slugify
from utils import format_date

def main():
    import json
`
	got := extractSorted(t, src, lang.Python)
	want := []string{".helpers", "app.models", "app.views", "json", "os", "utils"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExtractUndecodableContent(t *testing.T) {
	bad := []byte{0xff, 0xfe, 0x00, 'i', 'm', 'p'}
	if got := Extract(bad, lang.JS, ""); got != nil {
		t.Fatalf("invalid UTF-8 must yield zero imports, got %v", got)
	}
}

func TestExtractUnknownLanguage(t *testing.T) {
	if got := Extract([]byte("import x from './y'"), lang.Unknown, ""); got != nil {
		t.Fatalf("unknown language must yield zero imports, got %v", got)
	}
}

func TestExtractDeduplicates(t *testing.T) {
	src := `
import a from './a'
const again = require('./a')
`
	if got := Extract([]byte(src), lang.JS, ""); len(got) != 1 {
		t.Fatalf("duplicate specifiers must collapse, got %v", got)
	}
}
