package timemock

//go:generate go tool mockgen -destination timemock.go -package timemock github.com/tickworks/countdown Clock,FrameScheduler,VisibilityProvider
