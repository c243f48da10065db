package ingest

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/labstack/gommon/random"
	"github.com/spf13/viper"
	"github.com/tbruijn/covidwatch/internal/pkg/constants"
	"github.com/tbruijn/covidwatch/internal/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const downloadWorkers = 10

// DownloadAll mirrors every known feed, plus whatever JSON files the
// provider's open-data directory listing exposes, into dir. Each file is
// written to a temp name first so a failed download never clobbers the
// previous copy.
func (s *Service) DownloadAll(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll: %w", err)
	}

	endpoints := map[string]string{
		"rivm_cumulative":   viper.GetString(constants.ViperRivmCumulativeURL),
		"rivm_reproduction": viper.GetString(constants.ViperRivmReproductionURL),
		"rivm_prevalence":   viper.GetString(constants.ViperRivmPrevalenceURL),
		"rivm_cases":        viper.GetString(constants.ViperRivmCasesURL),
		"nice_cumulative":   viper.GetString(constants.ViperNiceCumulativeURL),
		"nice_proven":       viper.GetString(constants.ViperNiceProvenURL),
		"nice_suspected":    viper.GetString(constants.ViperNiceSuspectedURL),
	}

	discovered, err := s.discoverSourceFiles(ctx, viper.GetString(constants.ViperSourceIndexURL))
	if err != nil {
		// Discovery is best effort; the fixed endpoints still get mirrored.
		logger.Warnf(ctx, "discoverSourceFiles: %s", err.Error())
	}
	for name, url := range discovered {
		if _, ok := endpoints[name]; !ok {
			endpoints[name] = url
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(downloadWorkers)

	for name, url := range endpoints {
		name, url := name, url
		eg.Go(func() error {
			if err := s.downloadFile(egCtx, dir, name, url); err != nil {
				return fmt.Errorf("download %s: %w", name, err)
			}
			logger.Infof(egCtx, "downloaded %s", name)
			return nil
		})
	}

	return eg.Wait()
}

func (s *Service) downloadFile(ctx context.Context, dir, name, url string) error {
	body, err := fetch(ctx, s.client, url)
	if err != nil {
		return err
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s", name, random.String(8)))
	if err = os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("os.WriteFile: %w", err)
	}

	if err = os.Rename(tmp, filepath.Join(dir, name+".json")); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}

// discoverSourceFiles scrapes the provider's directory listing for .json
// links and returns them keyed by base name.
func (s *Service) discoverSourceFiles(ctx context.Context, indexURL string) (map[string]string, error) {
	if indexURL == "" {
		return nil, nil
	}

	body, err := fetch(ctx, s.client, indexURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	files := make(map[string]string)
	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !strings.HasSuffix(href, ".json") {
			return
		}

		name := strings.TrimSuffix(path.Base(href), ".json")
		if strings.HasPrefix(href, "http") {
			files[name] = href
		} else {
			files[name] = strings.TrimSuffix(indexURL, "/") + "/" + strings.TrimPrefix(href, "/")
		}
	})

	return files, nil
}
