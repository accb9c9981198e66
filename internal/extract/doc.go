// Package extract finds logo and favicon candidates in an HTML document.
//
// Selection is driven by plain Matcher values describing which tags to
// select, which attributes to inspect and which substrings count as a hit.
// An element matches when one of its own inspected attributes contains a
// target, or when any of its ancestors does. That lets
//
//	<div class="logo"><img src="/a.png"></div>
//
// match an otherwise anonymous <img>.
package extract
