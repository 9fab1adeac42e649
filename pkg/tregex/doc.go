/*
 * Copyright 2026 Go Tregex Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package tregex compiles Tregex-style patterns over labeled, ordered,
// rooted trees and matches them against a caller-supplied Tree.
//
// A pattern mixes node-label predicates (literal, regex, wildcard), tree
// relations (dominance, sisterhood, precedence, heads, ...), boolean
// combinators, naming and back-references. Compile once with Compile,
// then call FindAll against as many trees as needed; FindAll is safe for
// concurrent use across distinct calls, but Bindings reflects only the
// most recent FindAll on the same Pattern.
package tregex
