package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxFuzzInput = 1 << 16 // 64 KiB
	maxSeedBytes = 64 << 10
)

var markupSeeds = []string{
	``,
	`<div data-bind="text: a"></div>`,
	`<!-- ko if: show --><b>yes</b><!-- /ko -->`,
	`<ul data-bind="foreach: items"><li data-bind="text: $data"></li></ul>`,
	`<!-- ko foreach: {data: rows, as: 'row'} --><i data-bind="text: row.name"></i><!-- /ko -->`,
	`<a data-bind="attr: {href: url}, css: {on: !off}, style: {fontWeight: w}">x</a>`,
	`<!-- ko if: a --><b></b>`,
	`<b></b><!-- /ko -->`,
	`<p data-bind="frobnicate: x, text: y"></p><!-- ko if: --><i></i><!-- /ko -->`,
	`<div data-bind="if: a, text: b"></div>`,
	`<div data-htmlizer="text: a" data-bind="text: b"></div><!-- hz if: x --><!-- /hz -->`,
	`<x-panel params="{title: 'hi'}" ref="comps.p"><em>inner</em></x-panel>`,
	`<!-- ko template: 'row' --><!-- /ko -->`,
}

var directiveSeeds = []string{
	``,
	`text: a`,
	`if: a, css: {on: b}, attr: {id: c}`,
	`foreach: {data: rows, as: 'row'}`,
	`text: 'a, b', html: "<b>x</b>"`,
	`attr: {title: fn(a, [1, 2])}`,
	`ko if: show`,
	`/ko`,
	`hz foreach: items`,
	`{unbalanced`,
	`'unterminated`,
	`: empty key`,
}

func addMarkupSeeds(f *testing.F) {
	for _, s := range markupSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addDirectiveSeeds(f *testing.F) {
	for _, s := range directiveSeeds {
		f.Add(s)
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("testdata", "seeds")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по testdata/seeds, добавляем все *.html файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}
		// #nosec G304 -- path comes from package testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
