// Package imdb scrapes the public IMDb Top 250 charts.
//
// IMDb publishes no list API, so the chart HTML is fetched with a browser
// user agent and mined with tolerant regular expressions. The parser
// understands the current list layout and the legacy table layout; entries
// that fail to yield a tt identifier and title are skipped rather than
// failing the whole fetch.
package imdb
