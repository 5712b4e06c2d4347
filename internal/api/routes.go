package api

import "garbage-vision-go/internal/metrics"

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.Home)
	s.router.GET("/health", s.healthHandler.HealthCheck)
	s.router.GET("/metrics", metrics.Handler())

	s.router.POST("/upload", s.uploadHandler.Upload)
	s.router.Static("/results", s.config.ResultsDir)

	cam := s.router.Group("/camera")
	{
		// Wildcard so stream URIs with slashes survive as a source.
		cam.GET("/start/*source", s.cameraHandler.StartCamera)
		cam.GET("/stop", s.cameraHandler.StopCamera)
		cam.GET("/status", s.cameraHandler.CameraStatus)
		cam.GET("/stream", s.cameraHandler.StreamCamera)
		cam.GET("/devices", s.cameraHandler.ListDevices)
	}
}
