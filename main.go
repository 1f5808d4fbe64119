package main

import "github.com/A-Santhosh-Hub/YT-Video-Downloader/cmd"

func main() {
	cmd.Execute()
}
