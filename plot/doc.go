// Package plot renders benchmark results: timing charts with gonum/plot and
// interactive cluster scatter plots with go-echarts.
package plot
