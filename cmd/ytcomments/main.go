package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	ytcomments "github.com/steino/ytcomments"
)

func main() {
	var (
		youtubeID = flag.String("youtubeid", "", "ID of the Youtube video for which to download the comments")
		watchURL  = flag.String("url", "", "Youtube URL for which to download the comments")
		output    = flag.String("output", "", "Output filename")
		pretty    = flag.Bool("pretty", false, "Change the output format to indented JSON")
		limit     = flag.Int("limit", 0, "Limit the number of comments")
		language  = flag.String("language", "", "Language for Youtube generated text (e.g. en)")
		sortBy    = flag.Int("sort", ytcomments.SortByRecent, "Whether to download popular (0) or recent comments (1)")
		cookies   = flag.String("cookies", "", "Path to a Netscape cookies.txt file")
	)

	flag.Parse()

	err := run(*youtubeID, *watchURL, *output, *cookies, *language, *sortBy, *limit, *pretty)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(youtubeID, watchURL, output, cookies, language string, sortBy, limit int, pretty bool) error {
	if (youtubeID == "" && watchURL == "") || output == "" {
		flag.Usage()
		return errors.New("you need to specify a Youtube ID/URL and an output filename")
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	downloader, err := ytcomments.NewDownloader()
	if err != nil {
		return err
	}

	if cookies != "" {
		if err := downloader.LoadCookies(cookies); err != nil {
			return err
		}
	}

	opts := []ytcomments.FeedOpts{ytcomments.WithSort(sortBy)}
	if language != "" {
		opts = append(opts, ytcomments.WithLanguage(language))
	}

	feed := downloader.Comments(youtubeID, opts...)
	if youtubeID == "" {
		feed = downloader.CommentsFromURL(watchURL, opts...)
	}

	target := youtubeID
	if target == "" {
		target = watchURL
	}
	fmt.Println("Downloading Youtube comments for", target)

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := ytcomments.NewCommentWriter(f, pretty)
	start := time.Now()

	var feedErr error
	for comment, err := range feed {
		if err != nil {
			feedErr = err
			break
		}

		if err := writer.Write(comment); err != nil {
			feedErr = err
			break
		}

		fmt.Printf("\rDownloaded %d comment(s)", writer.Count())

		if limit > 0 && writer.Count() >= limit {
			break
		}
	}

	if err := writer.Close(); err != nil && feedErr == nil {
		feedErr = err
	}
	if feedErr != nil {
		fmt.Println()
		return feedErr
	}

	fmt.Printf("\n[%.2f seconds] Done!\n", time.Since(start).Seconds())

	return nil
}
