package pkg

const ModuleName = "runtime"
