package component

type FormTag struct{}

var FormTagComponent = NewComponent[FormTag]()

type TerrainTag struct{}

var TerrainTagComponent = NewComponent[TerrainTag]()

type LightTag struct{}

var LightTagComponent = NewComponent[LightTag]()
