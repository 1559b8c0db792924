package constants

import "os"

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_DIR")
	if path != "" {
		return path
	}
	return "./out"
}

func GetLilyPondPath() string {
	return os.Getenv("LILYPOND_PATH")
}

const DefaultPort = "8080"

// quarter notes per minute for exported and played MIDI
const DefaultTempo = 120

const DefaultTable = "chordmelody-arrangements"

// local DynamoDB, as started by the dynamodb-local image
const DefaultDynamoEndpoint = "http://localhost:8000"

const DefaultRegion = "localhost"
