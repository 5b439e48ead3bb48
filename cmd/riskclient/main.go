package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"road-risk-go/pkg/models"
	"road-risk-go/pkg/riskclient"
)

func main() {
	if err := run(context.Background(), os.Args, os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run разбирает аргументы и выполняет команду; вывод пишется в stdout и stderr
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		serverURL string
		timeout   time.Duration
		req       models.RiskRequest
	)

	newClient := func() *riskclient.Client {
		return riskclient.NewClient(serverURL, timeout)
	}

	app := &cli.Command{
		Name:      "riskclient",
		Usage:     "Road accident risk prediction client",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "server",
				Usage:       "Risk API base URL",
				Value:       "http://localhost:8000",
				Sources:     cli.EnvVars("RISK_SERVER_URL"),
				Destination: &serverURL,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "Request timeout",
				Value:       10 * time.Second,
				Destination: &timeout,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "predict",
				Usage: "Score one road segment",
				Flags: attributeFlags(&req),
				Action: func(ctx context.Context, c *cli.Command) error {
					resp, err := newClient().Predict(ctx, req)
					if err != nil {
						return report(stderr, serverURL, err)
					}
					fmt.Fprintf(stdout, "Risk Level: %s\n", resp.RiskLevel)
					fmt.Fprintf(stdout, "Risk Score: %.3f\n", resp.AccidentRiskScore)
					return nil
				},
			},
			{
				Name:  "ping",
				Usage: "Check that the server is running",
				Action: func(ctx context.Context, c *cli.Command) error {
					msg, err := newClient().Ping(ctx)
					if err != nil {
						return report(stderr, serverURL, err)
					}
					fmt.Fprintln(stdout, msg)
					return nil
				},
			},
		},
	}

	return app.Run(ctx, args)
}

// report печатает понятное сообщение об ошибке
func report(stderr io.Writer, serverURL string, err error) error {
	var apiErr *riskclient.APIError
	switch {
	case errors.Is(err, riskclient.ErrServerUnreachable):
		fmt.Fprintf(stderr, "Could not connect to the risk server at %s. Is it running?\n", serverURL)
	case errors.As(err, &apiErr):
		fmt.Fprintf(stderr, "Request rejected: %s\n", apiErr.Response.Error)
	default:
		fmt.Fprintf(stderr, "Request failed: %v\n", err)
	}
	return err
}

// attributeFlags флаги двенадцати атрибутов дороги; по умолчанию ночная трасса в тумане
func attributeFlags(req *models.RiskRequest) []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "public-road", Usage: "Public road", Value: true, Destination: &req.PublicRoad},
		&cli.BoolFlag{Name: "road-signs-present", Usage: "Road signs present", Destination: &req.RoadSignsPresent},
		&cli.StringFlag{Name: "lighting", Usage: "daylight, dim or night", Value: models.LightingNight, Destination: &req.Lighting},
		&cli.StringFlag{Name: "weather", Usage: "clear, rainy or foggy", Value: models.WeatherFoggy, Destination: &req.Weather},
		&cli.StringFlag{Name: "road-type", Usage: "rural, urban or highway", Value: models.RoadTypeHighway, Destination: &req.RoadType},
		&cli.StringFlag{Name: "time-of-day", Usage: "morning, afternoon or evening", Value: models.TimeOfDayEvening, Destination: &req.TimeOfDay},
		&cli.BoolFlag{Name: "holiday", Usage: "Holiday", Destination: &req.Holiday},
		&cli.BoolFlag{Name: "school-season", Usage: "School season", Value: true, Destination: &req.SchoolSeason},
		&cli.IntFlag{Name: "num-reported-accidents", Usage: "Reported accidents nearby", Value: 3, Destination: &req.NumReportedAccidents},
		&cli.IntFlag{Name: "num-lanes", Usage: "Number of lanes", Value: 4, Destination: &req.NumLanes},
		&cli.FloatFlag{Name: "curvature", Usage: "Road curvature, 0 straight to 1 very curved", Value: 0.65, Destination: &req.Curvature},
		&cli.FloatFlag{Name: "speed-limit", Usage: "Speed limit, km/h", Value: 100, Destination: &req.SpeedLimit},
	}
}
