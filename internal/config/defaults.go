package config

const (
	DefaultWorkerPoolSize          = 4
	DefaultStackSize               = 64 * 1024
	DefaultListenAddr              = "127.0.0.1:9321"
	DefaultProcessorPoolSize       = 100
	DefaultLogLevel                = "info"
	DefaultNameResolutionTimeoutMS = 5000
)
