package http

import "github.com/gin-gonic/gin"

// Register attaches every project route to rg (mounted at /api/v1/projects).
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.createProject)
	rg.GET("", h.listProjects)

	p := rg.Group("/:id")
	p.GET("", h.getProject)
	p.PATCH("", h.updateProject)
	p.DELETE("", h.removeProject)
	p.POST("/select", h.selectProject)
	p.POST("/open", h.openProject)
	p.POST("/save-draft", h.saveDraft)
	p.POST("/save", h.save)
	p.POST("/autosave", h.autoSave)
	p.POST("/refresh", h.refresh)
	p.GET("/snapshot", h.snapshot)
	p.GET("/validate", h.validate)

	p.GET("/swcs", h.listSWCs)
	p.POST("/swcs", h.createSWC)
	p.GET("/swcs/:swcId", h.getSWC)
	p.PATCH("/swcs/:swcId", h.updateSWC)
	p.DELETE("/swcs/:swcId", h.deleteSWC)
	p.GET("/swcs/:swcId/ports", h.listPorts)
	p.GET("/swcs/:swcId/runnables", h.listRunnables)
	p.POST("/swcs/:swcId/runnables", h.createRunnable)

	p.POST("/ports", h.createPort)
	p.GET("/ports/:portId", h.getPort)
	p.PATCH("/ports/:portId", h.updatePort)
	p.DELETE("/ports/:portId", h.deletePort)

	p.GET("/interfaces", h.listInterfaces)
	p.POST("/interfaces", h.createInterface)
	p.GET("/interfaces/:ifaceId", h.getInterface)
	p.PATCH("/interfaces/:ifaceId", h.updateInterface)
	p.DELETE("/interfaces/:ifaceId", h.deleteInterface)
	p.POST("/interfaces/:ifaceId/data-elements", h.addDataElement)
	p.PATCH("/interfaces/:ifaceId/data-elements/:elemId", h.updateDataElement)
	p.DELETE("/interfaces/:ifaceId/data-elements/:elemId", h.removeDataElement)
	p.POST("/interfaces/:ifaceId/operations", h.addOperation)
	p.DELETE("/interfaces/:ifaceId/operations/:opId", h.removeOperation)

	p.GET("/datatypes", h.listDataTypes)
	p.POST("/datatypes", h.createDataType)
	p.GET("/datatypes/:dtId", h.getDataType)
	p.PATCH("/datatypes/:dtId", h.updateDataType)
	p.DELETE("/datatypes/:dtId", h.deleteDataType)

	p.GET("/runnables/:runId", h.getRunnable)
	p.PATCH("/runnables/:runId", h.updateRunnable)
	p.DELETE("/runnables/:runId", h.deleteRunnable)
	p.GET("/runnables/:runId/access-points", h.listAccessPoints)

	p.POST("/access-points", h.createAccessPoint)
	p.GET("/access-point-name", h.previewAccessPointName)
	p.GET("/access-points/:apId", h.getAccessPoint)
	p.PATCH("/access-points/:apId", h.updateAccessPoint)
	p.DELETE("/access-points/:apId", h.deleteAccessPoint)

	p.GET("/compositions", h.listCompositions)
	p.POST("/compositions", h.createComposition)
	p.GET("/compositions/:compId", h.getComposition)
	p.PATCH("/compositions/:compId", h.updateComposition)
	p.DELETE("/compositions/:compId", h.deleteComposition)
	p.POST("/compositions/:compId/instances", h.addInstance)
	p.PATCH("/compositions/:compId/instances/:instId", h.updateInstance)
	p.DELETE("/compositions/:compId/instances/:instId", h.removeInstance)
	p.POST("/compositions/:compId/connectors", h.addConnector)
	p.DELETE("/compositions/:compId/connectors/:connId", h.removeConnector)
	p.GET("/compositions/:compId/dot", h.exportDOT)

	p.GET("/export/:format", h.export)
	p.GET("/exports", h.listExports)
	p.GET("/exports/:exportId", h.getExport)

	p.POST("/interpret", h.extract)
	p.GET("/interpret/:batchId", h.getBatch)
	p.PATCH("/interpret/:batchId/proposals/:propId", h.reviewProposal)
	p.POST("/interpret/:batchId/accept-all", h.acceptAll)
	p.POST("/interpret/:batchId/replay", h.replay)
}
