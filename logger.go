package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	errorLogger *log.Logger
	debugLogger *log.Logger
)

func setupLogging(debug bool) {
	rot := &lumberjack.Logger{
		Filename:   filepath.Join(baseDir, "logs", "novella.log"),
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14,
	}
	w := io.MultiWriter(os.Stdout, rot)
	errorLogger = log.New(w, "", log.LstdFlags)
	log.SetOutput(w)

	if debug {
		debugLogger = log.New(w, "debug: ", log.LstdFlags)
	}
}

func logError(format string, v ...interface{}) {
	if errorLogger != nil {
		errorLogger.Printf(format, v...)
	} else {
		log.Printf(format, v...)
	}
}

func logDebug(format string, v ...interface{}) {
	if debugLogger != nil {
		debugLogger.Printf(format, v...)
	}
}
