package main

const version = "v1.0.0"
const author = "the Tacit project"
const license = "MIT"
const prompt = "tacit >>> "
const separator = "----------------------------------------------------------------"

const banner = `
 ▸▸▸ tacit
`
