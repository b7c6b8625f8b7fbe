// Package chart turns a fitness series into the "Generation vs. Fitness" line
// chart, either as a Chart.js configuration for the browser or as an image
// rendered on the server.
package chart

import (
	"fmt"

	"github.com/felixbrock/ponygp/internal/domain"
)

const (
	Title        = "Generation vs. Fitness"
	DatasetLabel = "Fitness"

	BorderColor     = "rgb(81, 145, 255)"
	BackgroundColor = "rgba(138, 178, 252, 0.51)"
)

// Config mirrors the subset of the Chart.js configuration object the fitness
// chart uses.
type Config struct {
	Type    string  `json:"type"`
	Data    Data    `json:"data"`
	Options Options `json:"options"`
}

type Data struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset values are the raw fitness texts; Chart.js coerces them to numbers.
type Dataset struct {
	Label           string   `json:"label"`
	Data            []string `json:"data"`
	BorderColor     string   `json:"borderColor"`
	BackgroundColor string   `json:"backgroundColor"`
}

type Options struct {
	Title TitleOptions `json:"title"`
}

type TitleOptions struct {
	Display  bool   `json:"display"`
	Text     string `json:"text"`
	Position string `json:"position"`
}

// Labels returns "Gen 0" … "Gen n-1".
func Labels(n int) []string {
	if n < 0 {
		n = 0
	}

	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = fmt.Sprintf("Gen %d", i)
	}

	return labels
}

func NewConfig(fitnesses domain.FitnessSeries) Config {
	data := make([]string, len(fitnesses))
	copy(data, fitnesses)

	return Config{
		Type: "line",
		Data: Data{
			Labels: Labels(len(data)),
			Datasets: []Dataset{{
				Label:           DatasetLabel,
				Data:            data,
				BorderColor:     BorderColor,
				BackgroundColor: BackgroundColor,
			}},
		},
		Options: Options{
			Title: TitleOptions{
				Display:  true,
				Text:     Title,
				Position: "bottom",
			},
		},
	}
}
