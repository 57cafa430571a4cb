// Package template compiles annotated markup into a reusable Template and
// materialises live Views from it.
//
// A Template is parsed once: directive attributes and comment statements are
// extracted, structural bodies (if, ifnot, with, foreach) are carved into
// sub-templates. A View instantiates a Template against data and keeps enough
// bookkeeping (live node maps, child views, block boundaries) to update the
// produced nodes in place: conditional remounts, attribute toggles, and
// foreach splice/sort/reverse without rebuilding unaffected items.
//
// Components are constructed during materialisation but produce output only
// in the separate View.Render pass.
package template
