package buildinfo

const Graffiti = " ____  __  __ _  ___                 _   \n|  _ \\|  \\/  / |/ _ \\  ___ __ _ ___| |_ \n| |_) | |\\/| | | | | |/ __/ _` / __| __|\n|  __/| |  | | | |_| | (_| (_| \\__ \\ |_ \n|_|   |_|  |_|_|\\___/ \\___\\__,_|___/\\__|\n\n"

// Set via -ldflags "-X github.com/airsense/pm10cast/internal/buildinfo.BuildTag=..."
var (
	BuildTag string = "v0.0.0"
	Name     string = "PM10CAST"
	Time     string = ""
)

type buildinfo struct{}

func (buildinfo) Tag() string {
	return BuildTag
}

func (buildinfo) Name() string {
	return Name
}

func (buildinfo) Time() string {
	return Time
}

var Info buildinfo
